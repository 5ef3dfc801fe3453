package main

// General API documentation for swaggo. Run `swag init -g cmd/guardiand/docs.go -o docs` to regenerate.
//
// @title           guardiand API
// @version         1.0
// @description     HTTP API that forwards prompts to a locally loaded language model.
//
// @contact.name   codeguardian maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
