package graph

// SampleTriples is the small e-commerce graph loaded when seeding is enabled.
var SampleTriples = []Triple{
	{"Laptop", "belongs_to", "Electronics"},
	{"Electronics", "manages", "Amazon"},
	{"Amazon", "sells", "Books"},
	{"Books", "written_by", "Author1"},
	{"Laptop", "reviewed_by", "Customer1"},
	{"Customer1", "purchases_from", "Amazon"},
	{"Tablet", "belongs_to", "Electronics"},
	{"Smartphone", "belongs_to", "Electronics"},
	{"iPhone", "is_a", "Smartphone"},
	{"Product1", "has_seller", "Seller1"},
	{"Seller1", "sells_on", "Amazon"},
	{"Amazon", "has_category", "Electronics"},
}

// Seed adds SampleTriples to the store.
func (s *Store) Seed() BatchResult {
	return s.AddRelationshipsBatch(SampleTriples)
}
