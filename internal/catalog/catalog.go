package catalog

import "fusionstudio/internal/domain"

// references is the fixed style gallery, in display order. The list is
// defined once at startup and never mutated.
var references = []domain.Reference{
	{ID: "starry-night", DisplayName: "Starry Night", URL: "https://upload.wikimedia.org/wikipedia/commons/e/ea/Van_Gogh_-_Starry_Night_-_Google_Art_Project.jpg"},
	{ID: "great-wave", DisplayName: "The Great Wave", URL: "https://upload.wikimedia.org/wikipedia/commons/a/a5/Tsunami_by_hokusai_19th_century.jpg"},
	{ID: "the-scream", DisplayName: "The Scream", URL: "https://upload.wikimedia.org/wikipedia/commons/c/c5/Edvard_Munch%2C_1893%2C_The_Scream%2C_oil%2C_tempera_and_pastel_on_cardboard%2C_91_x_73_cm%2C_National_Gallery_of_Norway.jpg"},
	{ID: "composition-viii", DisplayName: "Composition VIII", URL: "https://upload.wikimedia.org/wikipedia/commons/b/b4/Vassily_Kandinsky%2C_1923_-_Composition_8.jpg"},
	{ID: "water-lilies", DisplayName: "Water Lilies", URL: "https://upload.wikimedia.org/wikipedia/commons/a/aa/Claude_Monet_-_Water_Lilies_-_1906%2C_Ryerson.jpg"},
	{ID: "girl-with-a-pearl-earring", DisplayName: "Girl with a Pearl Earring", URL: "https://upload.wikimedia.org/wikipedia/commons/d/d7/Meisje_met_de_parel.jpg"},
}

// All returns the catalog in display order. Callers must not modify the
// returned slice.
func All() []domain.Reference {
	return references
}

// Lookup resolves a catalog entry by ID.
func Lookup(id string) (domain.Reference, error) {
	for _, ref := range references {
		if ref.ID == id {
			return ref, nil
		}
	}
	return domain.Reference{}, domain.ErrReferenceNotFound
}
