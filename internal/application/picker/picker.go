package picker

import (
	"github.com/farmadesk/stockdesk/internal/domain/catalog"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
)

// Picker es la selección múltiple sobre el índice del catálogo. Mantiene el
// conjunto de productos seleccionados y reporta cada cambio como un único par
// (agregados, quitados): varias (de)selecciones simultáneas salen en un solo
// lote, nunca un evento por toggle.
type Picker struct {
	index    *catalog.Index
	selected map[int64]struct{}
}

// New crea un picker sobre el índice dado.
func New(index *catalog.Index) *Picker {
	return &Picker{
		index:    index,
		selected: make(map[int64]struct{}),
	}
}

// Visible devuelve los productos que matchean la búsqueda actual.
func (p *Picker) Visible(query string) []entity.CatalogProduct {
	return p.index.Search(query)
}

// Selected devuelve los productos actualmente seleccionados, en el orden del
// catálogo.
func (p *Picker) Selected() []entity.CatalogProduct {
	var out []entity.CatalogProduct
	for _, prod := range p.index.All() {
		if _, ok := p.selected[prod.ID]; ok {
			out = append(out, prod)
		}
	}
	return out
}

// IsSelected indica si el producto está resaltado.
func (p *Picker) IsSelected(id int64) bool {
	_, ok := p.selected[id]
	return ok
}

// Apply reemplaza la selección y devuelve la diferencia simétrica contra la
// anterior: todo id presente en la nueva y ausente en la vieja sale en added
// exactamente una vez; todo id de la vieja ausente en la nueva sale en removed
// exactamente una vez. IDs que no existen en el catálogo se ignoran.
func (p *Picker) Apply(selection []int64) (added, removed []entity.CatalogProduct) {
	next := make(map[int64]struct{}, len(selection))
	for _, id := range selection {
		prod, ok := p.index.Get(id)
		if !ok {
			continue
		}
		if _, dup := next[id]; dup {
			continue
		}
		next[id] = struct{}{}
		if _, had := p.selected[id]; !had {
			added = append(added, prod)
		}
	}
	// Orden del catálogo para que el lote de quitados sea determinista.
	for _, prod := range p.index.All() {
		if _, had := p.selected[prod.ID]; !had {
			continue
		}
		if _, keep := next[prod.ID]; !keep {
			removed = append(removed, prod)
		}
	}
	p.selected = next
	return added, removed
}

// SyncSelection restaura el resaltado desde la membresía actual del borrador
// (por product_id), para que al reabrir el picker el progreso parcial no se
// pierda visualmente. No emite deltas.
func (p *Picker) SyncSelection(ids []int64) {
	p.selected = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := p.index.Get(id); ok {
			p.selected[id] = struct{}{}
		}
	}
}
