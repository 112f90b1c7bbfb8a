package model

// ================ Config ================

type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"30m"`
	// RecentTurns bounds how much history is replayed into the response
	// prompt. Token-budget decision, not a correctness requirement.
	RecentTurns int `envconfig:"CONVERSATION_RECENT_TURNS" default:"2"`
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"100"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"300"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.7"`
}

type EmbeddingConfig struct {
	Model string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`
}

type RetrieverConfig struct {
	KnowledgeBasePath string `envconfig:"KNOWLEDGE_BASE_PATH" default:"knowledge_base.json"`
	TopK              int    `envconfig:"RETRIEVER_TOP_K" default:"2"`
	ChunkSize         int    `envconfig:"RETRIEVER_CHUNK_SIZE" default:"300"`
	ChunkOverlap      int    `envconfig:"RETRIEVER_CHUNK_OVERLAP" default:"30"`
}

type PromptConfig struct {
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"AutoStream"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}
