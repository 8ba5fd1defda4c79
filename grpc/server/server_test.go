package server_test

import (
	"context"
	"dm-chat/auth"
	"dm-chat/domain"
	"dm-chat/errors"
	"dm-chat/grpc/client"
	"dm-chat/grpc/server"
	"dm-chat/mocks"
	"dm-chat/services"
	"fmt"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type harness struct {
	auth          *mocks.MockIAuthService
	conversations *mocks.MockIConversationService
	conn          *grpc.ClientConn
	client        *client.Client
}

func newHarness(t *testing.T) harness {
	ctrl := gomock.NewController(t)
	h := harness{
		auth:          mocks.NewMockIAuthService(ctrl),
		conversations: mocks.NewMockIConversationService(ctrl),
	}

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(auth.UnaryInterceptor(slog.Default())))
	server.RegisterAuthServiceServer(s, server.NewAuthServer(h.auth))
	server.RegisterConversationServiceServer(s, server.NewConversationServer(h.conversations))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	h.conn = conn
	h.client = client.New(conn)
	return h
}

func TestAuthServer(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the session on register", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		cmd := domain.RegisterCommand{Name: "Alice", Email: "alice@example.com", Password: "ComplexPass123!"}
		user := domain.User{ID: uuid.NewString(), Name: "Alice", Email: "alice@example.com"}
		h.auth.EXPECT().Register(gomock.Any(), cmd).Return(services.Session{User: user, Token: "tok"}, nil)

		res, err := h.client.Register(ctx, cmd)
		req.NoError(err)
		req.Equal("tok", res.Token)
		req.Equal(user.ID, res.User.ID)
	})

	t.Run("should map invalid credentials to unauthenticated", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		h.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(services.Session{}, errors.ErrInvalidCredentials)

		_, err := h.client.Login(ctx, domain.LoginCommand{Email: "alice@example.com", Password: "nope"})
		st, ok := status.FromError(err)
		req.True(ok)
		req.Equal(codes.Unauthenticated, st.Code())
		req.Equal("invalid credentials", st.Message())
	})
}

func TestConversationServer(t *testing.T) {
	ctx := client.WithToken(context.Background(), "tok")
	chatID := uuid.NewString()

	t.Run("should forward the bearer credential", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		sent := domain.Message{ID: uuid.NewString(), ChatID: chatID, SenderID: "a", Text: "hi", CreatedAt: time.Now().UTC()}
		h.conversations.EXPECT().
			SendMessage(gomock.Any(), "Bearer tok", domain.SendMessageCommand{ChatID: chatID, Text: "hi"}).
			Return(sent, nil)

		message, err := h.client.SendMessage(ctx, chatID, "hi")
		req.NoError(err)
		req.Equal(sent.ID, message.ID)
		req.True(sent.CreatedAt.Equal(message.CreatedAt))
	})

	t.Run("should reach the service anonymously and relay its refusal", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		h.conversations.EXPECT().ListMyChats(gomock.Any(), "").Return(nil, errors.ErrUnauthenticated)

		_, err := h.client.ListMyChats(context.Background())
		req.Equal(codes.Unauthenticated, status.Code(err))
		req.Equal(errors.KindUnauthenticated, errors.KindFromGRPC(err))
	})

	t.Run("should return a direct chat", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		target := uuid.NewString()
		chat := domain.NewDirectChat(chatID, "me", target, time.Now().UTC())
		h.conversations.EXPECT().
			OpenOrCreateDirectChat(gomock.Any(), "Bearer tok", domain.OpenDirectChatCommand{TargetUserID: target}).
			Return(chat, nil)

		got, err := h.client.OpenOrCreateDirectChat(ctx, target)
		req.NoError(err)
		req.True(got.IsDirectBetween("me", target))
	})

	t.Run("should flag an empty chat", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		h.conversations.EXPECT().RetrieveMessages(gomock.Any(), "Bearer tok", gomock.Any()).
			Return(domain.MessagePage{Messages: []domain.Message{}, NoMessagesYet: true}, nil)

		page, err := h.client.RetrieveMessages(ctx, chatID, nil)
		req.NoError(err)
		req.True(page.NoMessagesYet)
		req.Empty(page.Messages)
	})

	t.Run("should not leak internal detail", func(t *testing.T) {
		req := require.New(t)
		h := newHarness(t)
		h.conversations.EXPECT().RetrieveMessages(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.MessagePage{}, errors.Internal(fmt.Errorf("badger: value log corrupted")))

		_, err := h.client.RetrieveMessages(ctx, chatID, nil)
		st, _ := status.FromError(err)
		req.Equal(codes.Internal, st.Code())
		req.Equal("internal server error", st.Message())
	})
}

func TestUndecodableRequest_IsInvalidArgument(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	var out map[string]any
	err := h.conn.Invoke(context.Background(), server.ConversationService_SendMessage_FullMethodName,
		map[string]any{"chatId": 42, "text": []int{1}}, &out, grpc.CallContentSubtype("json"))

	st, ok := status.FromError(err)
	req.True(ok)
	req.Equal(codes.InvalidArgument, st.Code())
	req.Equal("request body must be a JSON object", st.Message())
	req.NotContains(st.Message(), "domain.")
}
