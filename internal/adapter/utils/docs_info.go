// @title           PDF Chat RAG API
// @version         1.0
// @description     Upload PDFs into a per-session index, chat with retrieval-augmented answers and score them.

// @contact.name    API Support
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//qdrant (only with INDEX_BACKEND=qdrant)
//docker run -p 6333:6333 -p 6334:6334 qdrant/qdrant

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
