package server

import (
	"context"
	"dm-chat/contract"
	"dm-chat/errors"
	_ "dm-chat/grpc/codec"

	"google.golang.org/grpc"
)

const (
	AuthServiceName         = "dmchat.AuthService"
	ConversationServiceName = "dmchat.ConversationService"

	AuthService_Register_FullMethodName                       = "/" + AuthServiceName + "/Register"
	AuthService_Login_FullMethodName                          = "/" + AuthServiceName + "/Login"
	ConversationService_OpenOrCreateDirectChat_FullMethodName = "/" + ConversationServiceName + "/OpenOrCreateDirectChat"
	ConversationService_ListMyChats_FullMethodName            = "/" + ConversationServiceName + "/ListMyChats"
	ConversationService_SendMessage_FullMethodName            = "/" + ConversationServiceName + "/SendMessage"
	ConversationService_RetrieveMessages_FullMethodName       = "/" + ConversationServiceName + "/RetrieveMessages"
)

type AuthServiceServer interface {
	Register(context.Context, *contract.RegisterRequest) (*contract.AuthResponse, error)
	Login(context.Context, *contract.LoginRequest) (*contract.AuthResponse, error)
}

type ConversationServiceServer interface {
	OpenOrCreateDirectChat(context.Context, *contract.OpenChatRequest) (*contract.Chat, error)
	ListMyChats(context.Context, *contract.ListChatsRequest) (*contract.ListChatsResponse, error)
	SendMessage(context.Context, *contract.SendMessageRequest) (*contract.Message, error)
	RetrieveMessages(context.Context, *contract.RetrieveMessagesRequest) (*contract.MessagePage, error)
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unary(AuthService_Login_FullMethodName, AuthServiceServer.Login)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dmchat/auth",
}

var ConversationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ConversationServiceName,
	HandlerType: (*ConversationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenOrCreateDirectChat", Handler: unary(ConversationService_OpenOrCreateDirectChat_FullMethodName,
			ConversationServiceServer.OpenOrCreateDirectChat)},
		{MethodName: "ListMyChats", Handler: unary(ConversationService_ListMyChats_FullMethodName,
			ConversationServiceServer.ListMyChats)},
		{MethodName: "SendMessage", Handler: unary(ConversationService_SendMessage_FullMethodName,
			ConversationServiceServer.SendMessage)},
		{MethodName: "RetrieveMessages", Handler: unary(ConversationService_RetrieveMessages_FullMethodName,
			ConversationServiceServer.RetrieveMessages)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dmchat/conversation",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

func RegisterConversationServiceServer(s grpc.ServiceRegistrar, srv ConversationServiceServer) {
	s.RegisterService(&ConversationService_ServiceDesc, srv)
}

// unary builds the method handler that decodes the request and runs it through the interceptor chain.
func unary[S any, Req any, Resp any](fullMethod string,
	call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, errors.MapToGRPCError(errors.Validation("", "request body must be a JSON object"))
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
