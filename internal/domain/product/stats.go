package product

// Stats holds aggregate availability counts over a product snapshot.
type Stats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
}

// ComputeStats derives availability counts from a product snapshot. There
// is no partial or unknown bucket: any status other than Available,
// including a malformed or missing one, counts as unavailable. Must be
// recomputed whenever the snapshot changes.
func ComputeStats(products []Product) Stats {
	s := Stats{Total: len(products)}
	for _, p := range products {
		if p.Status == StatusAvailable {
			s.Available++
		}
	}
	s.Unavailable = s.Total - s.Available
	return s
}
