package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	appmovement "github.com/farmadesk/stockdesk/internal/application/movement"
	"github.com/farmadesk/stockdesk/internal/application/picker"
	"github.com/farmadesk/stockdesk/internal/domain/catalog"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
	"github.com/farmadesk/stockdesk/internal/domain/movement"
	"github.com/farmadesk/stockdesk/internal/infrastructure/api"
	"github.com/farmadesk/stockdesk/pkg/config"
	"github.com/farmadesk/stockdesk/pkg/logger"
)

// Catálogos chicos que en el backend real salen de sus propios CRUD.
var providers = []entity.Provider{
	{ID: 1, Name: "Droguería del Sol"},
	{ID: 2, Name: "Distrifarma"},
}

var paymentMethods = []entity.PaymentMethod{
	{ID: 1, Name: "efectivo"},
	{ID: 2, Name: "tarjeta"},
	{ID: 3, Name: "transferencia"},
}

// toastNotifier imprime los toasts en la terminal.
type toastNotifier struct{}

func (toastNotifier) Success(msg string) { fmt.Println("✔ " + msg) }
func (toastNotifier) Warn(msg string)    { fmt.Println("⚠ " + msg) }
func (toastNotifier) Error(msg string)   { fmt.Println("✖ " + msg) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout()})
	ctx := context.Background()

	if err := client.Login(ctx, cfg.API.Username, cfg.API.Password); err != nil {
		log.Fatal().Err(err).Msg("login contra el backend")
	}

	index := catalog.NewIndex(nil)
	uc := appmovement.NewSubmitUseCase(client, client, toastNotifier{}, index, log)
	if err := uc.RefreshCatalog(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga inicial del catálogo")
	}
	fmt.Printf("stockdesk — %d productos en catálogo. Escriba 'ayuda'.\n", index.Len())

	app := &cli{
		ctx:    ctx,
		uc:     uc,
		index:  index,
		picker: picker.New(index),
	}
	app.run()
}

// cli mantiene el estado de la sesión: el borrador en curso (si hay) y el
// picker sincronizado con él.
type cli struct {
	ctx    context.Context
	uc     *appmovement.SubmitUseCase
	index  *catalog.Index
	picker *picker.Picker
	draft  *movement.Draft
}

func (a *cli) run() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "salir" {
			return
		}
		a.dispatch(args[0], args[1:])
	}
}

func (a *cli) dispatch(cmd string, args []string) {
	var err error
	switch cmd {
	case "ayuda":
		a.help()
	case "catalogo":
		a.printCatalog(strings.Join(args, " "))
	case "nuevo":
		err = a.newDraft(args)
	case "agregar":
		err = a.changeSelection(args, true)
	case "quitar":
		err = a.changeSelection(args, false)
	case "renglones":
		a.printLines()
	case "mas", "menos":
		err = a.bumpQuantity(cmd == "mas", args)
	case "desc", "lote", "vence", "precio":
		err = a.editLine(cmd, args)
	case "proveedor":
		err = a.pickProvider(args)
	case "pago":
		err = a.pickPayment(args)
	case "guardar":
		err = a.save()
	case "cancelar":
		if a.draft != nil {
			a.draft.Reset()
			a.draft = nil
			a.picker.SyncSelection(nil)
			fmt.Println("borrador descartado")
		}
	default:
		fmt.Println("comando desconocido; escriba 'ayuda'")
	}
	if err != nil {
		fmt.Println("error:", err)
	}
}

func (a *cli) help() {
	fmt.Println(`comandos:
  catalogo [filtro]       lista el catálogo (filtro sin mayúsculas ni tildes)
  nuevo <entry|sale|adjustment|return> [id]   abre un borrador (opcional: sembrado)
  agregar <id...>         selecciona productos del catálogo
  quitar <id...>          los deselecciona
  renglones               muestra el borrador (y el total si es venta)
  mas/menos <n>           ajusta cantidad del renglón n
  desc/lote <n> <texto>   edita descripción o lote
  vence <n> AAAA-MM-DD    edita vencimiento (entradas)
  precio <n> <valor>      edita precio (ventas)
  proveedor <id>          elige proveedor (entradas)
  pago <nombre>           elige método de pago (ventas)
  guardar | cancelar | salir`)
}

func (a *cli) printCatalog(filter string) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCTO\tDESCRIPCIÓN\tPRECIO\tSTOCK\tSEL")
	for _, p := range a.index.Search(filter) {
		mark := ""
		if a.picker.IsSelected(p.ID) {
			mark = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Description, p.Price.StringFixed(2), p.Stock, mark)
	}
	w.Flush()
}

func (a *cli) newDraft(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: nuevo <entry|sale|adjustment|return> [id]")
	}
	typ := movement.Type(args[0])
	if !typ.Valid() {
		return fmt.Errorf("tipo desconocido: %s", args[0])
	}
	a.draft = movement.NewDraft(typ)
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return err
		}
		p, ok := a.index.Get(id)
		if !ok {
			return fmt.Errorf("producto %d no está en el catálogo", id)
		}
		a.draft = movement.NewDraftSeeded(typ, p)
	}
	a.picker.SyncSelection(a.draft.ProductIDs())
	fmt.Println(typ.Label())
	return nil
}

// changeSelection traduce agregar/quitar al contrato del picker: arma la
// selección nueva completa y aplica la diferencia simétrica en un solo lote.
func (a *cli) changeSelection(args []string, add bool) error {
	if a.draft == nil {
		return fmt.Errorf("no hay borrador abierto; use 'nuevo'")
	}
	ids := map[int64]struct{}{}
	for _, id := range a.draft.ProductIDs() {
		ids[id] = struct{}{}
	}
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return err
		}
		if add {
			ids[id] = struct{}{}
		} else {
			delete(ids, id)
		}
	}
	selection := make([]int64, 0, len(ids))
	for id := range ids {
		selection = append(selection, id)
	}
	added, removed := a.picker.Apply(selection)
	if _, err := a.draft.AddProducts(added); err != nil {
		return err
	}
	removedLines, err := a.draft.RemoveProducts(removed)
	if err != nil {
		return err
	}
	switch {
	case len(removedLines) == 1:
		fmt.Printf("quitado: %s\n", removedLines[0].ProductName)
	case len(removedLines) > 1:
		fmt.Printf("quitados %d renglones\n", len(removedLines))
	}
	return nil
}

func (a *cli) printLines() {
	if a.draft == nil {
		fmt.Println("no hay borrador abierto")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "N\tPRODUCTO\tCANT\tSTOCK\tPRECIO\tLOTE\tVENCE\tERROR")
	for n, ln := range a.draft.Lines() {
		expiry := ""
		if ln.ExpirationDate != nil {
			expiry = ln.ExpirationDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			n+1, ln.ProductName, ln.Quantity, ln.Stock, ln.Price.StringFixed(2), ln.BatchNumber, expiry, ln.Error)
	}
	w.Flush()
	if a.draft.Type().HasPrice() {
		fmt.Printf("Total: %s\n", a.draft.Total().StringFixed(2))
	}
}

func (a *cli) lineID(arg string) (string, error) {
	if a.draft == nil {
		return "", fmt.Errorf("no hay borrador abierto")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", err
	}
	lines := a.draft.Lines()
	if n < 1 || n > len(lines) {
		return "", fmt.Errorf("renglón %d fuera de rango", n)
	}
	return lines[n-1].ID, nil
}

func (a *cli) bumpQuantity(up bool, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: mas|menos <n>")
	}
	id, err := a.lineID(args[0])
	if err != nil {
		return err
	}
	if up {
		return a.draft.IncrementQuantity(id)
	}
	return a.draft.DecrementQuantity(id)
}

func (a *cli) editLine(cmd string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("uso: %s <n> <valor>", cmd)
	}
	id, err := a.lineID(args[0])
	if err != nil {
		return err
	}
	value := strings.Join(args[1:], " ")
	switch cmd {
	case "desc":
		return a.draft.EditDescription(id, value)
	case "lote":
		return a.draft.EditBatchNumber(id, value)
	case "vence":
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return err
		}
		return a.draft.EditExpirationDate(id, &t)
	case "precio":
		price, err := decimal.NewFromString(value)
		if err != nil {
			return err
		}
		return a.draft.EditPrice(id, price)
	}
	return nil
}

func (a *cli) pickProvider(args []string) error {
	if a.draft == nil {
		return fmt.Errorf("no hay borrador abierto")
	}
	if len(args) < 1 {
		for _, p := range providers {
			fmt.Printf("  %d  %s\n", p.ID, p.Name)
		}
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	for _, p := range providers {
		if p.ID == id {
			prov := p
			return a.draft.SetProvider(&prov)
		}
	}
	return fmt.Errorf("proveedor %d desconocido", id)
}

func (a *cli) pickPayment(args []string) error {
	if a.draft == nil {
		return fmt.Errorf("no hay borrador abierto")
	}
	if len(args) < 1 {
		for _, pm := range paymentMethods {
			fmt.Printf("  %s\n", pm.Name)
		}
		return nil
	}
	for _, pm := range paymentMethods {
		if pm.Name == args[0] {
			method := pm
			return a.draft.SetPaymentMethod(&method)
		}
	}
	return fmt.Errorf("método de pago desconocido: %s", args[0])
}

func (a *cli) save() error {
	if a.draft == nil {
		return fmt.Errorf("no hay borrador abierto")
	}
	if errs := a.draft.ValidateForSubmit(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println("· " + e.Message)
		}
		return nil
	}
	if err := a.uc.Submit(a.ctx, a.draft); err != nil {
		// Conflicto o falla genérica: el borrador sigue vivo y editable.
		a.printLines()
		return nil
	}
	a.draft = nil
	a.picker.SyncSelection(nil)
	return nil
}
