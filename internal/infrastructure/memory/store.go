package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/domain"
	"github.com/farmadesk/stockdesk/internal/domain/catalog"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
	"github.com/farmadesk/stockdesk/internal/domain/movement"
)

// UserAccount cuenta sembrada para el backend de desarrollo.
type UserAccount struct {
	Username     string
	PasswordHash string
	Role         string
}

// Store es el almacén en memoria del backend de desarrollo: productos con
// stock y usuarios sembrados. No persiste nada; existe para ejercitar el
// contrato de movimientos sin el backend real.
type Store struct {
	mu       sync.RWMutex
	products map[int64]entity.CatalogProduct
	users    map[string]UserAccount
}

// NewSeeded crea el almacén con un catálogo de farmacia y usuarios de
// desarrollo (admin/admin123, vendedor/venta123).
func NewSeeded() *Store {
	products := []entity.CatalogProduct{
		{ID: 1, Name: "Ibuprofeno 400mg", Description: "Caja x 30 comprimidos", Price: decimal.NewFromFloat(3200.00), Stock: 48},
		{ID: 2, Name: "Paracetamol 500mg", Description: "Caja x 20 comprimidos", Price: decimal.NewFromFloat(2100.50), Stock: 60},
		{ID: 3, Name: "Amoxicilina 500mg", Description: "Caja x 21 cápsulas", Price: decimal.NewFromFloat(5400.00), Stock: 12},
		{ID: 4, Name: "Jarabe para la tos", Description: "Frasco 120ml", Price: decimal.NewFromFloat(4150.75), Stock: 25},
		{ID: 5, Name: "Alcohol en gel", Description: "Botella 250ml", Price: decimal.NewFromFloat(1800.00), Stock: 90},
		{ID: 6, Name: "Curitas surtidas", Description: "Caja x 40 unidades", Price: decimal.NewFromFloat(950.25), Stock: 140},
		{ID: 7, Name: "Loratadina 10mg", Description: "Caja x 10 comprimidos", Price: decimal.NewFromFloat(2750.00), Stock: 8},
		{ID: 8, Name: "Omeprazol 20mg", Description: "Caja x 14 cápsulas", Price: decimal.NewFromFloat(3900.00), Stock: 33},
	}
	byID := make(map[int64]entity.CatalogProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Store{
		products: byID,
		users:    seedUsers(),
	}
}

func seedUsers() map[string]UserAccount {
	users := map[string]UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", "admin"},
		{"vendedor", "venta123", "vendedor"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			panic("memory: hash de contraseña sembrada: " + err.Error())
		}
		users[u.username] = UserAccount{
			Username:     u.username,
			PasswordHash: string(hash),
			Role:         u.role,
		}
	}
	return users
}

// Authenticate verifica usuario y contraseña contra las cuentas sembradas.
func (s *Store) Authenticate(username, password string) (UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return UserAccount{}, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return UserAccount{}, domain.ErrUnauthorized
	}
	return user, nil
}

// ListProducts devuelve el catálogo ordenado por id, filtrado opcionalmente
// por subcadena (sin mayúsculas ni tildes) sobre nombre y descripción.
func (s *Store) ListProducts(filter string) []entity.CatalogProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := catalog.Normalize(filter)
	out := make([]entity.CatalogProduct, 0, len(s.products))
	for _, p := range s.products {
		if q != "" && !strings.Contains(catalog.Normalize(p.Name+" "+p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyMovement aplica un movimiento completo o lo rechaza completo: si algún
// renglón de venta/ajuste no tiene stock suficiente, ningún renglón se aplica
// y se devuelve la lista de rechazados (contrato sin commit parcial).
func (s *Store) ApplyMovement(req dto.CreateMovementRequest) ([]movement.RejectedLine, error) {
	typ := movement.Type(req.Type)
	if !typ.Valid() || len(req.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Primera pasada: validar existencia y stock de todos los renglones.
	var rejected []movement.RejectedLine
	for _, ln := range req.Lines {
		p, ok := s.products[ln.ProductID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if ln.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		if typ.ChecksStock() && ln.Quantity > p.Stock {
			rejected = append(rejected, movement.RejectedLine{
				ProductID: ln.ProductID,
				Reason:    "stock insuficiente",
				Available: p.Stock,
			})
		}
	}
	if len(rejected) > 0 {
		return rejected, domain.ErrInsufficientStock
	}

	// Segunda pasada: aplicar.
	for _, ln := range req.Lines {
		p := s.products[ln.ProductID]
		if typ.ChecksStock() {
			p.Stock -= ln.Quantity
		} else {
			p.Stock += ln.Quantity
		}
		s.products[ln.ProductID] = p
	}
	return nil, nil
}
