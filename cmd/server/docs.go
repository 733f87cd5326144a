package main

//go:generate swag init -g docs.go -d ./,../../internal -o ../../docs --parseDependency

// @title Movie Collection API
// @version 1.0
// @description Accounts, owner-scoped movie collections and a proxied movie catalog.
// @description
// @description Every response is an envelope of success, message, data and error.
// @description Sign in at /auth/sign-in and send the token as "Bearer <token>".
//
// @BasePath /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
