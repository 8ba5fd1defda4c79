// Package client is the Go client of the gRPC services, used by the e2e suite.
package client

import (
	"context"
	"dm-chat/contract"
	"dm-chat/domain"
	"dm-chat/grpc/codec"
	"dm-chat/grpc/server"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type Client struct {
	conn *grpc.ClientConn
}

func New(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// WithToken attaches the bearer credential to every call made with the returned context.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func (c *Client) Register(ctx context.Context, cmd domain.RegisterCommand) (contract.AuthResponse, error) {
	var out contract.AuthResponse
	err := c.invoke(ctx, server.AuthService_Register_FullMethodName, &cmd, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, cmd domain.LoginCommand) (contract.AuthResponse, error) {
	var out contract.AuthResponse
	err := c.invoke(ctx, server.AuthService_Login_FullMethodName, &cmd, &out)
	return out, err
}

func (c *Client) OpenOrCreateDirectChat(ctx context.Context, targetUserID string) (domain.Chat, error) {
	var out contract.Chat
	in := contract.OpenChatRequest{TargetUserID: targetUserID}
	if err := c.invoke(ctx, server.ConversationService_OpenOrCreateDirectChat_FullMethodName, &in, &out); err != nil {
		return domain.Chat{}, err
	}
	return out.ToChat(), nil
}

func (c *Client) ListMyChats(ctx context.Context) ([]contract.ChatSummary, error) {
	var out contract.ListChatsResponse
	if err := c.invoke(ctx, server.ConversationService_ListMyChats_FullMethodName,
		&contract.ListChatsRequest{}, &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) (domain.Message, error) {
	var out contract.Message
	in := contract.SendMessageRequest{ChatID: chatID, Text: text}
	if err := c.invoke(ctx, server.ConversationService_SendMessage_FullMethodName, &in, &out); err != nil {
		return domain.Message{}, err
	}
	return out.ToMessage(), nil
}

func (c *Client) RetrieveMessages(ctx context.Context, chatID string, cursor *string) (domain.MessagePage, error) {
	var out contract.MessagePage
	in := contract.RetrieveMessagesRequest{ChatID: chatID, Cursor: cursor}
	if err := c.invoke(ctx, server.ConversationService_RetrieveMessages_FullMethodName, &in, &out); err != nil {
		return domain.MessagePage{}, err
	}
	return out.ToMessagePage(), nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(codec.Name))
}
