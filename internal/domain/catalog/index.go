package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/farmadesk/stockdesk/internal/domain/entity"
)

// Index es la vista de solo lectura sobre la foto del catálogo de productos.
// Alimenta el buscador del picker; la búsqueda jamás muta la foto. La foto se
// reemplaza completa al cargar la pantalla y tras un movimiento exitoso.
type Index struct {
	products   []entity.CatalogProduct
	normalized []string // name + descripción normalizados, paralelo a products
	byID       map[int64]int
}

// NewIndex crea un índice con la foto inicial (puede ser vacía).
func NewIndex(products []entity.CatalogProduct) *Index {
	idx := &Index{}
	idx.Replace(products)
	return idx
}

// Replace reemplaza la foto completa del catálogo.
func (i *Index) Replace(products []entity.CatalogProduct) {
	i.products = make([]entity.CatalogProduct, len(products))
	copy(i.products, products)
	i.normalized = make([]string, len(products))
	i.byID = make(map[int64]int, len(products))
	for n, p := range i.products {
		i.normalized[n] = Normalize(p.Name + " " + p.Description)
		i.byID[p.ID] = n
	}
}

// All devuelve una copia de la foto completa, en el orden del servidor.
func (i *Index) All() []entity.CatalogProduct {
	out := make([]entity.CatalogProduct, len(i.products))
	copy(out, i.products)
	return out
}

// Len cantidad de productos en la foto.
func (i *Index) Len() int { return len(i.products) }

// Get busca un producto por id.
func (i *Index) Get(id int64) (entity.CatalogProduct, bool) {
	n, ok := i.byID[id]
	if !ok {
		return entity.CatalogProduct{}, false
	}
	return i.products[n], true
}

// Search filtra por subcadena sin distinguir mayúsculas ni tildes sobre
// nombre y descripción. Query vacía devuelve la foto completa.
func (i *Index) Search(query string) []entity.CatalogProduct {
	q := Normalize(query)
	if q == "" {
		return i.All()
	}
	var out []entity.CatalogProduct
	for n, hay := range i.normalized {
		if strings.Contains(hay, q) {
			out = append(out, i.products[n])
		}
	}
	return out
}

// normalizer descompone (NFD), quita marcas combinantes y recompone: así
// "Ibuprofeno" matchea "ibuprofeno" y "jarabe" matchea "Jarabé".
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lleva un texto a minúsculas sin tildes para comparar.
func Normalize(s string) string {
	clean, _, err := transform.String(normalizer, s)
	if err != nil {
		clean = s
	}
	return strings.ToLower(strings.TrimSpace(clean))
}
