package server

//go:generate swag init -g internal/server/swagger.go -o internal/server/docs

// @title FraudEye Dashboard API
// @version 0.1
// @description Local dashboard surface: session, scan history, new scans and the extension relay.
// @contact.name FraudEye Maintainers
// @contact.url https://github.com/raysh454/fraudeye
// @BasePath /
