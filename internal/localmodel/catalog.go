package localmodel

// Model describes a model the offline chatbot offers for download.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

// Catalog lists the selectable models, smallest first.
var Catalog = []Model{
	{
		ID:          "qwen2.5:0.5b",
		Name:        "Qwen2.5 0.5B",
		Size:        "~400MB",
		Description: "Fast and lightweight, great for quick responses",
	},
	{
		ID:          "tinyllama",
		Name:        "TinyLlama 1.1B",
		Size:        "~640MB",
		Description: "Optimized for chat, balanced performance",
	},
	{
		ID:          "phi",
		Name:        "Phi-2",
		Size:        "~1.6GB",
		Description: "Higher quality responses, slower generation",
	},
}

// FindModel returns the catalog entry for id.
func FindModel(id string) (Model, bool) {
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// CatalogIDs returns the ids of every catalog model.
func CatalogIDs() []string {
	ids := make([]string, len(Catalog))
	for i, m := range Catalog {
		ids[i] = m.ID
	}
	return ids
}
