package domain

// Collection is a wearable collection known to the indexing service.
type Collection struct {
	ID        string
	Name      string
	Symbol    string
	CreatedAt int64
}
