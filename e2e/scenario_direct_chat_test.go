package e2e

import (
	"context"
	"dm-chat/domain"
	"dm-chat/grpc/client"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type testDirectChatSuite struct {
	BaseGrpcSuite
}

func TestDirectChatSuite(t *testing.T) {
	suite.Run(t, &testDirectChatSuite{})
}

func (s *testDirectChatSuite) register(ctx context.Context, c *client.Client, name string) (string, string) {
	res, err := c.Register(ctx, domain.RegisterCommand{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@e2e.test", name, uuid.NewString()[:8]),
		Password: "E2e-Password-123!",
	})
	s.Require().NoError(err)
	return res.User.ID, res.Token
}

func (s *testDirectChatSuite) TestFullConversationFlow() {
	var aliceID, aliceToken, bobID, bobToken, chatID string

	s.Run("Step 0: Register both participants", func() {
		s.WithServer("Register alice and bob", func(ctx context.Context, c *client.Client) {
			aliceID, aliceToken = s.register(ctx, c, "alice")
			bobID, bobToken = s.register(ctx, c, "bob")
		})
	})

	s.Run("Step 1: Anonymous calls are refused", func() {
		s.WithServer("List chats without a token", func(ctx context.Context, c *client.Client) {
			_, err := c.ListMyChats(ctx)
			s.Require().Equal(codes.Unauthenticated, status.Code(err))
		})
	})

	s.Run("Step 2: Opening twice yields one chat", func() {
		s.WithServer("Open chat from both sides", func(ctx context.Context, c *client.Client) {
			first, err := c.OpenOrCreateDirectChat(client.WithToken(ctx, aliceToken), bobID)
			s.Require().NoError(err)
			second, err := c.OpenOrCreateDirectChat(client.WithToken(ctx, bobToken), aliceID)
			s.Require().NoError(err)
			s.Require().Equal(first.ID, second.ID)
			chatID = first.ID
		})
	})

	s.Run("Step 3: Empty chat is reported as such", func() {
		s.WithServer("Retrieve before any message", func(ctx context.Context, c *client.Client) {
			page, err := c.RetrieveMessages(client.WithToken(ctx, bobToken), chatID, nil)
			s.Require().NoError(err)
			s.Require().True(page.NoMessagesYet)
		})
	})

	s.Run("Step 4: Messages come back newest first", func() {
		s.WithServer("Exchange two messages", func(ctx context.Context, c *client.Client) {
			_, err := c.SendMessage(client.WithToken(ctx, aliceToken), chatID, "hi")
			s.Require().NoError(err)
			last, err := c.SendMessage(client.WithToken(ctx, bobToken), chatID, "hello")
			s.Require().NoError(err)

			page, err := c.RetrieveMessages(client.WithToken(ctx, aliceToken), chatID, nil)
			s.Require().NoError(err)
			s.Require().Len(page.Messages, 2)
			s.Require().Equal("hello", page.Messages[0].Text)
			s.Require().Equal("hi", page.Messages[1].Text)

			chats, err := c.ListMyChats(client.WithToken(ctx, aliceToken))
			s.Require().NoError(err)
			s.Require().NotEmpty(chats)
			s.Require().Equal(chatID, chats[0].ID)
			s.Require().Equal(last.ID, chats[0].LastMessage.MessageID)
		})
	})

	s.Run("Step 5: HTTP health answers", func() {
		if s.Config.HTTPAddr == "" {
			s.T().Skip("HTTP_ADDR not set")
		}
		s.Header(s.T(), "GET /health")
		httpClient := &http.Client{Timeout: 5 * time.Second}
		res, err := httpClient.Get("http://" + s.Config.HTTPAddr + "/health")
		s.Require().NoError(err)
		defer res.Body.Close()
		s.Require().Equal(http.StatusOK, res.StatusCode)

		var body struct {
			Code string `json:"code"`
		}
		s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
		s.Require().Equal("SUCCESS", body.Code)
	})
}
