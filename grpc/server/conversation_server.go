package server

import (
	"context"
	"dm-chat/auth"
	"dm-chat/contract"
	"dm-chat/errors"
	"dm-chat/services"

	"github.com/samber/lo"
)

// ConversationServer exposes the conversation use cases over gRPC.
// The caller's credential is read from the context populated by auth.UnaryInterceptor.
type ConversationServer struct {
	conversations services.IConversationService
}

func NewConversationServer(conversations services.IConversationService) *ConversationServer {
	return &ConversationServer{conversations: conversations}
}

func (s *ConversationServer) OpenOrCreateDirectChat(ctx context.Context,
	req *contract.OpenChatRequest) (*contract.Chat, error) {
	chat, err := s.conversations.OpenOrCreateDirectChat(ctx, auth.AuthorizationFrom(ctx), *req)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return lo.ToPtr(contract.FromChat(chat)), nil
}

func (s *ConversationServer) ListMyChats(ctx context.Context,
	_ *contract.ListChatsRequest) (*contract.ListChatsResponse, error) {
	chats, err := s.conversations.ListMyChats(ctx, auth.AuthorizationFrom(ctx))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return lo.ToPtr(contract.FromChatSummaries(chats)), nil
}

func (s *ConversationServer) SendMessage(ctx context.Context,
	req *contract.SendMessageRequest) (*contract.Message, error) {
	message, err := s.conversations.SendMessage(ctx, auth.AuthorizationFrom(ctx), *req)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return lo.ToPtr(contract.FromMessage(message)), nil
}

func (s *ConversationServer) RetrieveMessages(ctx context.Context,
	req *contract.RetrieveMessagesRequest) (*contract.MessagePage, error) {
	page, err := s.conversations.RetrieveMessages(ctx, auth.AuthorizationFrom(ctx), *req)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return lo.ToPtr(contract.FromMessagePage(page)), nil
}
