package errors

// Typed construction errors for missing collaborators. They satisfy error
// directly so NewError can fold them into an aggregate.

type ErrMissingEmbedder struct{}

func (ErrMissingEmbedder) Error() string { return "memory manager requires an embedder" }

type ErrMissingStore struct{}

func (ErrMissingStore) Error() string { return "memory manager requires a vector store" }

type ErrMissingExtractor struct{}

func (ErrMissingExtractor) Error() string { return "memory manager requires an extractor" }

type ErrMissingAPIKey struct {
	Provider string
}

func (err ErrMissingAPIKey) Error() string { return err.Provider + " API key is not set" }
