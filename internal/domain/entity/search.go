package entity

// SearchResultType indica qué tipo de entidad contiene un SearchResult.
type SearchResultType string

const (
	SearchResultCategory    SearchResultType = "category"
	SearchResultSubcategory SearchResultType = "subcategory"
	SearchResultProduct     SearchResultType = "product"
)

// SearchResult resultado etiquetado de búsqueda; solo el puntero que corresponde a Type es no nulo.
type SearchResult struct {
	Type        SearchResultType
	Category    *Category
	Subcategory *Subcategory
	Product     *Product
}

// ID devuelve el id de la entidad contenida.
func (r SearchResult) ID() string {
	switch r.Type {
	case SearchResultCategory:
		return r.Category.ID
	case SearchResultSubcategory:
		return r.Subcategory.ID
	case SearchResultProduct:
		return r.Product.ID
	}
	return ""
}

// Name devuelve el nombre de la entidad contenida.
func (r SearchResult) Name() string {
	switch r.Type {
	case SearchResultCategory:
		return r.Category.Name
	case SearchResultSubcategory:
		return r.Subcategory.Name
	case SearchResultProduct:
		return r.Product.Name
	}
	return ""
}

// ScanResult resultado de leer un código de barras: el producto si existe.
type ScanResult struct {
	Barcode string
	Found   bool
	Product *Product
}
