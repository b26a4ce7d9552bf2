package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/amazonstore/backend/internal/domain/store"
	csvimport "github.com/amazonstore/backend/internal/infrastructure/import"
	"github.com/amazonstore/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Column names of the order export file
const (
	ColCustomerID    = "CustomerID"
	ColCustomerName  = "CustomerName"
	ColCity          = "City"
	ColState         = "State"
	ColCountry       = "Country"
	ColSellerID      = "SellerID"
	ColBrand         = "Brand"
	ColCategory      = "Category"
	ColProductID     = "ProductID"
	ColProductName   = "ProductName"
	ColOrderID       = "OrderID"
	ColOrderDate     = "OrderDate"
	ColPaymentMethod = "PaymentMethod"
	ColOrderStatus   = "OrderStatus"
	ColShippingCost  = "ShippingCost"
	ColTotalAmount   = "TotalAmount"
	ColQuantity      = "Quantity"
	ColUnitPrice     = "UnitPrice"
	ColDiscount      = "Discount"
	ColTax           = "Tax"
)

// DefaultProgressInterval is how many rows pass between progress lines
const DefaultProgressInterval = 100

const tracerName = "github.com/amazonstore/backend/internal/application/import"

// RequiredColumns returns the header columns every order file must carry
func RequiredColumns() []string {
	return []string{
		ColCustomerID, ColCustomerName, ColCity, ColState, ColCountry,
		ColSellerID, ColBrand, ColCategory, ColProductID, ColProductName,
		ColOrderID, ColOrderDate, ColPaymentMethod, ColOrderStatus,
		ColShippingCost, ColTotalAmount, ColQuantity, ColUnitPrice, ColDiscount, ColTax,
	}
}

// ImportResult summarizes a committed import run
type ImportResult struct {
	RunID    uuid.UUID          `json:"run_id"`
	Source   string             `json:"source"`
	Rows     int                `json:"rows"`
	Mode     store.LineItemMode `json:"line_item_mode"`
	Created  store.EntityCounts `json:"created"`
	Totals   store.EntityCounts `json:"totals"`
	Duration time.Duration      `json:"duration"`
}

// RunObservation is reported to the MetricsRecorder when a run ends
type RunObservation struct {
	Mode     store.LineItemMode
	Rows     int
	Created  store.EntityCounts
	Duration time.Duration
	Err      error
}

// Option configures an OrderImportService
type Option func(*OrderImportService)

// WithLineItemMode selects how order items are created for multi-line orders
func WithLineItemMode(mode store.LineItemMode) Option {
	return func(s *OrderImportService) {
		s.mode = mode
	}
}

// WithProgressInterval sets the row interval between progress lines.
// Zero disables per-row progress output.
func WithProgressInterval(n int) Option {
	return func(s *OrderImportService) {
		s.progressInterval = n
	}
}

// WithProgressWriter sets where human readable progress is written
func WithProgressWriter(w io.Writer) Option {
	return func(s *OrderImportService) {
		s.progress = w
	}
}

// WithMetrics registers a recorder for run metrics
func WithMetrics(m MetricsRecorder) Option {
	return func(s *OrderImportService) {
		s.metrics = m
	}
}

// WithCacheInvalidator registers a cache to drop after each committed run
func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(s *OrderImportService) {
		s.cache = c
	}
}

// OrderImportService loads a denormalized order export into the store.
// A whole file is imported inside one transaction.
type OrderImportService struct {
	transactor       store.ImportTransactor
	opener           SourceOpener
	logger           *zap.Logger
	tracer           trace.Tracer
	mode             store.LineItemMode
	progressInterval int
	progress         io.Writer
	metrics          MetricsRecorder
	cache            CacheInvalidator
}

// NewOrderImportService creates a new OrderImportService
func NewOrderImportService(
	transactor store.ImportTransactor,
	opener SourceOpener,
	log *zap.Logger,
	opts ...Option,
) *OrderImportService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &OrderImportService{
		transactor:       transactor,
		opener:           opener,
		logger:           log,
		tracer:           otel.Tracer(tracerName),
		mode:             store.LineItemModeFirstRow,
		progressInterval: DefaultProgressInterval,
		progress:         io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import reads the file at location and upserts every row.
// Nothing is persisted unless every row succeeds.
func (s *OrderImportService) Import(ctx context.Context, location string) (result *ImportResult, err error) {
	run := csvimport.NewRun(location)
	ctx, log := logger.WithImportRunID(ctx, s.logger, run.ID.String())
	ctx, span := s.tracer.Start(ctx, "import.orders", trace.WithAttributes(
		attribute.String("import.source", location),
		attribute.String("import.line_item_mode", string(s.mode)),
	))
	defer span.End()

	var created store.EntityCounts
	defer func() {
		if err != nil {
			run.Fail(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Error("import failed", zap.String("source", location), zap.Error(err))
		}
		s.record(ctx, run, created, err)
	}()

	rows, err := s.readRows(ctx, location)
	if err != nil {
		return nil, err
	}

	run.Start(len(rows))
	span.SetAttributes(attribute.Int("import.rows", len(rows)))
	log.Info("import started", zap.String("source", location), zap.Int("rows", len(rows)))
	fmt.Fprintf(s.progress, "Found %d rows to import\n", len(rows))

	var totals, pending store.EntityCounts
	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, st store.ImportStore) error {
		imp := &rowImporter{store: st, cache: newRunCache(), mode: s.mode}
		for i, row := range rows {
			n := i + 1
			if s.progressInterval > 0 && n%s.progressInterval == 0 {
				fmt.Fprintf(s.progress, "Processing row %d/%d...\n", n, len(rows))
				log.Debug("import progress", zap.Int("row", n), zap.Int("rows", len(rows)))
			}
			if err := imp.importRow(ctx, row); err != nil {
				var fieldErr *csvimport.FieldError
				if errors.As(err, &fieldErr) {
					return err
				}
				return fmt.Errorf("line %d: %w", row.LineNumber, err)
			}
			run.Advance()
		}
		pending = imp.created

		var err error
		totals, err = st.Counts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	created = pending
	run.Complete()

	result = &ImportResult{
		RunID:    run.ID,
		Source:   location,
		Rows:     len(rows),
		Mode:     s.mode,
		Created:  created,
		Totals:   totals,
		Duration: run.Duration(),
	}
	s.writeSummary(result)
	log.Info("import completed",
		zap.Int("rows", result.Rows),
		zap.Int64("created", created.Total()),
		zap.Duration("duration", result.Duration),
	)

	if s.cache != nil {
		if cerr := s.cache.InvalidateDashboard(ctx); cerr != nil {
			log.Warn("failed to invalidate dashboard cache", zap.Error(cerr))
		}
	}
	return result, nil
}

// readRows opens the source, checks the header and reads every data row.
// All of this happens before a transaction is opened.
func (s *OrderImportService) readRows(ctx context.Context, location string) ([]*csvimport.Row, error) {
	src, err := s.opener.Open(ctx, location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, location)
		}
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer src.Close()

	parser, err := csvimport.NewCSVParser(src)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if err := parser.RequireHeaders(RequiredColumns()); err != nil {
		return nil, err
	}
	return parser.ReadAllRows()
}

func (s *OrderImportService) writeSummary(r *ImportResult) {
	fmt.Fprintf(s.progress, "Successfully imported %d rows!\n", r.Rows)
	fmt.Fprintln(s.progress, "Total records created:")
	for _, line := range CountLines(r.Totals) {
		fmt.Fprintf(s.progress, "  %s: %d\n", line.Label, line.Count)
	}
}

func (s *OrderImportService) record(ctx context.Context, run *csvimport.Run, created store.EntityCounts, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordImport(ctx, RunObservation{
		Mode:     s.mode,
		Rows:     run.TotalRows,
		Created:  created,
		Duration: run.Duration(),
		Err:      err,
	})
}

// CountLine is one labelled entry of an EntityCounts summary
type CountLine struct {
	Label string
	Count int64
}

// CountLines lists counts in dependency order with display labels
func CountLines(c store.EntityCounts) []CountLine {
	return []CountLine{
		{"Customers", c.Customers},
		{"Sellers", c.Sellers},
		{"Brands", c.Brands},
		{"Categories", c.Categories},
		{"Products", c.Products},
		{"ProductSellers", c.ProductSellers},
		{"Orders", c.Orders},
		{"OrderItems", c.OrderItems},
	}
}

// rowImporter applies rows to one transaction-bound store
type rowImporter struct {
	store   store.ImportStore
	cache   *runCache
	mode    store.LineItemMode
	created store.EntityCounts
}

func (imp *rowImporter) importRow(ctx context.Context, row *csvimport.Row) error {
	customer, err := imp.customer(ctx, row)
	if err != nil {
		return err
	}
	seller, err := imp.seller(ctx, row.Get(ColSellerID))
	if err != nil {
		return err
	}
	brand, err := imp.brand(ctx, row.Get(ColBrand))
	if err != nil {
		return err
	}
	category, err := imp.category(ctx, row.Get(ColCategory))
	if err != nil {
		return err
	}
	product, err := imp.product(ctx, row, brand, category)
	if err != nil {
		return err
	}

	_, linked, err := imp.store.GetOrCreateProductSeller(ctx, product.ProductID, seller.SellerID)
	if err != nil {
		return err
	}
	if linked {
		imp.created.ProductSellers++
	}

	order, orderCreated, err := imp.order(ctx, row, customer)
	if err != nil {
		return err
	}

	switch imp.mode {
	case store.LineItemModePerRow:
		shipping := decimal.Zero
		if orderCreated {
			shipping = order.ShippingCost
		}
		item, err := newItem(row, order, product, seller, shipping)
		if err != nil {
			return err
		}
		_, itemCreated, err := imp.store.GetOrCreateOrderItem(ctx, item)
		if err != nil {
			return err
		}
		if itemCreated {
			imp.created.OrderItems++
		}
	default:
		if !orderCreated {
			return nil
		}
		item, err := newItem(row, order, product, seller, order.ShippingCost)
		if err != nil {
			return err
		}
		if err := imp.store.CreateOrderItem(ctx, item); err != nil {
			return err
		}
		imp.created.OrderItems++
	}
	return nil
}

func (imp *rowImporter) customer(ctx context.Context, row *csvimport.Row) (*store.Customer, error) {
	id := row.Get(ColCustomerID)
	if c, ok := imp.cache.customers[id]; ok {
		return c, nil
	}
	c, created, err := imp.store.GetOrCreateCustomer(ctx, &store.Customer{
		CustomerID: id,
		Name:       row.Get(ColCustomerName),
		City:       row.Get(ColCity),
		State:      row.Get(ColState),
		Country:    row.Get(ColCountry),
	})
	if err != nil {
		return nil, err
	}
	if created {
		imp.created.Customers++
	}
	imp.cache.customers[id] = c
	return c, nil
}

func (imp *rowImporter) seller(ctx context.Context, id string) (*store.Seller, error) {
	if s, ok := imp.cache.sellers[id]; ok {
		return s, nil
	}
	s, created, err := imp.store.GetOrCreateSeller(ctx, id)
	if err != nil {
		return nil, err
	}
	if created {
		imp.created.Sellers++
	}
	imp.cache.sellers[id] = s
	return s, nil
}

func (imp *rowImporter) brand(ctx context.Context, name string) (*store.Brand, error) {
	if b, ok := imp.cache.brands[name]; ok {
		return b, nil
	}
	b, created, err := imp.store.GetOrCreateBrand(ctx, name)
	if err != nil {
		return nil, err
	}
	if created {
		imp.created.Brands++
	}
	imp.cache.brands[name] = b
	return b, nil
}

func (imp *rowImporter) category(ctx context.Context, name string) (*store.Category, error) {
	if c, ok := imp.cache.categories[name]; ok {
		return c, nil
	}
	c, created, err := imp.store.GetOrCreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	if created {
		imp.created.Categories++
	}
	imp.cache.categories[name] = c
	return c, nil
}

func (imp *rowImporter) product(ctx context.Context, row *csvimport.Row, brand *store.Brand, category *store.Category) (*store.Product, error) {
	id := row.Get(ColProductID)
	if p, ok := imp.cache.products[id]; ok {
		return p, nil
	}
	p, created, err := imp.store.GetOrCreateProduct(ctx, &store.Product{
		ProductID:  id,
		Name:       row.Get(ColProductName),
		BrandID:    brand.ID,
		CategoryID: category.ID,
	})
	if err != nil {
		return nil, err
	}
	if created {
		imp.created.Products++
	}
	imp.cache.products[id] = p
	return p, nil
}

// order resolves the row's order. The order columns are coerced on every row,
// even when the order already exists and the values are discarded.
func (imp *rowImporter) order(ctx context.Context, row *csvimport.Row, customer *store.Customer) (*store.Order, bool, error) {
	date, err := row.Date(ColOrderDate)
	if err != nil {
		return nil, false, err
	}
	shipping, err := row.Decimal(ColShippingCost)
	if err != nil {
		return nil, false, err
	}
	total, err := row.Decimal(ColTotalAmount)
	if err != nil {
		return nil, false, err
	}

	order, created, err := imp.store.GetOrCreateOrder(ctx, &store.Order{
		OrderID:       row.Get(ColOrderID),
		OrderDate:     date,
		CustomerID:    customer.CustomerID,
		PaymentMethod: row.Get(ColPaymentMethod),
		Status:        row.Get(ColOrderStatus),
		ShippingCost:  shipping,
		TotalAmount:   total,
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		imp.created.Orders++
	}
	return order, created, nil
}

// newItem builds the row's order item. shipping is the order's shipping cost on
// the line that created the order and zero on later lines, so an order is charged once.
func newItem(row *csvimport.Row, order *store.Order, product *store.Product, seller *store.Seller, shipping decimal.Decimal) (*store.OrderItem, error) {
	quantity, err := row.Int(ColQuantity)
	if err != nil {
		return nil, err
	}
	var unitPrice, discount, tax decimal.Decimal
	for _, f := range []struct {
		col string
		dst *decimal.Decimal
	}{
		{ColUnitPrice, &unitPrice},
		{ColDiscount, &discount},
		{ColTax, &tax},
	} {
		if *f.dst, err = row.Decimal(f.col); err != nil {
			return nil, err
		}
	}
	return store.NewOrderItem(order.OrderID, product.ProductID, seller.SellerID,
		quantity, unitPrice, discount, tax, shipping), nil
}
