// Package docs provides generated OpenAPI documentation.
//
// sheetindex API
//
//	@title			sheetindex API
//	@version		1.0
//	@description	Identifies drawing sheets (sheet number, title, discipline) from page label hits.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/sheetindex
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/sheetindex/serve.go -o ./swagger --parseDependency --parseInternal
