//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"context"
	"dm-chat/auth"
	"dm-chat/domain"
	"dm-chat/errors"
	"dm-chat/repositories"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// IConversationService exposes the four protected use cases.
// Each call receives the raw Authorization header value and resolves the caller first.
type IConversationService interface {
	OpenOrCreateDirectChat(ctx context.Context, authorization string, cmd domain.OpenDirectChatCommand) (domain.Chat, error)
	ListMyChats(ctx context.Context, authorization string) ([]domain.ChatSummary, error)
	SendMessage(ctx context.Context, authorization string, cmd domain.SendMessageCommand) (domain.Message, error)
	RetrieveMessages(ctx context.Context, authorization string, cmd domain.RetrieveMessagesCommand) (domain.MessagePage, error)
}

type ConversationService struct {
	gate             auth.IGate
	users            repositories.IUserRepository
	chats            repositories.IChatRepository
	messages         repositories.IMessageRepository
	log              *slog.Logger
	maxContentLength int
}

func NewConversationService(
	log *slog.Logger,
	gate auth.IGate,
	users repositories.IUserRepository,
	chats repositories.IChatRepository,
	messages repositories.IMessageRepository,
	maxContentLength int,
) *ConversationService {
	return &ConversationService{
		gate:             gate,
		users:            users,
		chats:            chats,
		messages:         messages,
		log:              log,
		maxContentLength: maxContentLength,
	}
}

// OpenOrCreateDirectChat returns the single direct chat between the caller and the target,
// creating it on first use. Losing a creation race returns the winner's chat.
func (s *ConversationService) OpenOrCreateDirectChat(ctx context.Context, authorization string,
	cmd domain.OpenDirectChatCommand) (domain.Chat, error) {
	caller, err := s.gate.ResolveCaller(ctx, authorization)
	if err != nil {
		return domain.Chat{}, s.surface("open chat", err)
	}
	if err = auth.Validate(cmd); err != nil {
		return domain.Chat{}, err
	}
	if cmd.TargetUserID == caller.ID {
		return domain.Chat{}, errors.Validation("userId", "cannot open a direct chat with yourself")
	}
	if _, err = s.users.GetUserByID(ctx, cmd.TargetUserID); err != nil {
		return domain.Chat{}, s.surface("open chat", err)
	}

	chat, found, err := s.chats.FindDirectChat(ctx, caller.ID, cmd.TargetUserID)
	if err != nil {
		return domain.Chat{}, s.surface("open chat", err)
	}
	if found {
		return chat, nil
	}

	chat, err = s.chats.CreateDirectChat(ctx, caller.ID, cmd.TargetUserID)
	switch {
	case err == nil:
		return chat, nil
	case !errors.Is(err, errors.ErrChatPairExists):
		return domain.Chat{}, s.surface("open chat", err)
	}

	s.log.Debug("Direct chat created concurrently, returning existing one",
		"user_id", caller.ID, "target_id", cmd.TargetUserID)
	chat, found, err = s.chats.FindDirectChat(ctx, caller.ID, cmd.TargetUserID)
	switch {
	case err != nil:
		return domain.Chat{}, s.surface("open chat", err)
	case !found:
		return domain.Chat{}, s.surface("open chat",
			fmt.Errorf("pair conflict reported but no chat found for %s/%s", caller.ID, cmd.TargetUserID))
	}
	return chat, nil
}

// ListMyChats returns the caller's chats, most recent activity first. An empty list is not an error.
func (s *ConversationService) ListMyChats(ctx context.Context, authorization string) ([]domain.ChatSummary, error) {
	caller, err := s.gate.ResolveCaller(ctx, authorization)
	if err != nil {
		return nil, s.surface("list chats", err)
	}
	chats, err := s.chats.ListChatsForUser(ctx, caller.ID)
	if err != nil {
		return nil, s.surface("list chats", err)
	}
	return chats, nil
}

// SendMessage posts text in a chat on behalf of the caller, who must be a member.
// The lastMessage refresh is a second write; its failure is logged and does not undo the message.
func (s *ConversationService) SendMessage(ctx context.Context, authorization string,
	cmd domain.SendMessageCommand) (domain.Message, error) {
	caller, err := s.gate.ResolveCaller(ctx, authorization)
	if err != nil {
		return domain.Message{}, s.surface("send message", err)
	}
	if err = s.validateMessage(caller, cmd); err != nil {
		return domain.Message{}, err
	}

	chat, err := s.chats.GetChat(ctx, cmd.ChatID)
	if err != nil {
		return domain.Message{}, s.surface("send message", err)
	}
	if !chat.HasMember(caller.ID) {
		return domain.Message{}, errors.ErrNotChatMember
	}

	message, err := s.messages.Create(ctx, chat.ID, caller.ID, cmd.Text)
	if err != nil {
		return domain.Message{}, s.surface("send message", err)
	}

	if err = s.chats.AttachLastMessage(ctx, chat.ID, message.Snapshot()); err != nil {
		s.log.Warn("Last message snapshot is stale",
			"chat_id", chat.ID, "message_id", message.ID, "error", err)
	}
	return message, nil
}

// RetrieveMessages lists a chat's messages newest first.
// An empty chat is a success with NoMessagesYet set.
func (s *ConversationService) RetrieveMessages(ctx context.Context, authorization string,
	cmd domain.RetrieveMessagesCommand) (domain.MessagePage, error) {
	caller, err := s.gate.ResolveCaller(ctx, authorization)
	if err != nil {
		return domain.MessagePage{}, s.surface("retrieve messages", err)
	}
	if err = auth.Validate(cmd); err != nil {
		return domain.MessagePage{}, err
	}

	chat, err := s.chats.GetChat(ctx, cmd.ChatID)
	if err != nil {
		return domain.MessagePage{}, s.surface("retrieve messages", err)
	}
	if !chat.HasMember(caller.ID) {
		return domain.MessagePage{}, errors.ErrNotChatMember
	}

	messages, cursor, err := s.messages.ListByChat(ctx, chat.ID, cmd.Cursor)
	if err != nil {
		return domain.MessagePage{}, s.surface("retrieve messages", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return domain.MessagePage{
		Messages:      messages,
		NextCursor:    cursor,
		NoMessagesYet: len(messages) == 0 && cmd.Cursor == nil,
	}, nil
}

func (s *ConversationService) validateMessage(caller domain.User, cmd domain.SendMessageCommand) error {
	if err := auth.Validate(cmd); err != nil {
		return err
	}
	if strings.TrimSpace(cmd.Text) == "" {
		return errors.Validation("text", "text is required")
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(cmd.Text) > s.maxContentLength {
		return errors.Validation("text", fmt.Sprintf("text must be at most %d characters", s.maxContentLength))
	}
	if cmd.SenderID != "" && cmd.SenderID != caller.ID {
		return errors.Validation("senderId", "senderId must match the authenticated user")
	}
	return nil
}

// surface logs internal faults and strips their detail. Client faults pass through.
func (s *ConversationService) surface(op string, err error) error {
	if errors.KindOf(err) != errors.KindInternal {
		return err
	}
	s.log.Error("Conversation operation failed", "op", op, "error", err)
	return errors.Internal(err)
}
