package handler

import (
	ws "github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/websocket"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	listingHandler   *ListingHandler
	requestHandler   *RequestHandler
	chatHandler      *ChatHandler
	webSocketHandler *WebSocketHandler
	healthHandler    *HealthHandler
)

func Setup(
	userService UserService,
	listingService ListingService,
	requestService RequestService,
	chatService ChatService,
	wsManager *ws.Manager,
	allowedOrigins []string,
) {
	authHandler = NewAuthHandler(userService)
	userHandler = NewUserHandler(userService)
	listingHandler = NewListingHandler(listingService)
	requestHandler = NewRequestHandler(requestService)
	chatHandler = NewChatHandler(chatService)
	webSocketHandler = NewWebSocketHandler(wsManager, allowedOrigins)
	healthHandler = NewHealthHandler(wsManager)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetRequestHandler() *RequestHandler {
	return requestHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
