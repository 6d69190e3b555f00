package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-scanner/internal/application/dto"
	"github.com/jhoicas/stock-scanner/internal/application/stock"
	"github.com/jhoicas/stock-scanner/internal/domain"
	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// ProductHandler maneja las peticiones HTTP de productos, stock y escáner.
type ProductHandler struct {
	stock *stock.Manager
}

// NewProductHandler construye el handler.
func NewProductHandler(m *stock.Manager) *ProductHandler {
	return &ProductHandler{stock: m}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.ToProductList(h.stock.Products()))
}

// Create godoc
// @Summary      Crear producto
// @Description  Crea el producto y registra un movimiento "add" con la cantidad inicial.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.AddProduct(c.Context(), stock.NewProduct{
		Name:          in.Name,
		Description:   in.Description,
		Barcode:       in.Barcode,
		Quantity:      in.Quantity,
		SubcategoryID: in.SubcategoryID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(out))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, ok := h.stock.GetProduct(c.Params("id"))
	if !ok {
		return notFound(c, "producto")
	}
	return c.JSON(dto.ToProductResponse(p))
}

// GetByBarcode primer producto con ese código.
// El código llega escapado en la ruta (p. ej. %2F para "/") y se normaliza igual que en Scan.
// @Summary      Obtener producto por código de barras
// @Tags         products
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras (escapado)"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if unescaped, err := url.PathUnescape(barcode); err == nil {
		barcode = unescaped
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "barcode es requerido"})
	}
	p, ok := h.stock.GetProductByBarcode(barcode)
	if !ok {
		return notFound(c, "producto")
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Update godoc
// @Summary      Modificar nombre y descripción
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.UpdateProduct(c.Context(), c.Params("id"), in.Name, in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(out))
}

// AdjustStock godoc
// @Summary      Ajustar stock
// @Description  add suma, remove resta (409 si no hay suficiente), modify fija la cantidad.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.StockAdjustmentRequest  true  "type y quantity"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	t, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return writeError(c, domain.ErrInvalidMovementType)
	}
	mv, err := h.stock.AdjustStock(c.Context(), c.Params("id"), t, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockMovementResponse(mv))
}

// Movements historial de movimientos de un producto.
// @Summary      Historial de movimientos de un producto
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.stock.GetProduct(id); !ok {
		return notFound(c, "producto")
	}
	return c.JSON(dto.ToStockMovementList(h.stock.MovementsByProduct(id)))
}

// AllMovements historial completo.
// @Summary      Historial completo de movimientos
// @Tags         movements
// @Produce      json
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/movements [get]
func (h *ProductHandler) AllMovements(c *fiber.Ctx) error {
	return c.JSON(dto.ToStockMovementList(h.stock.StockMovements()))
}

// Scan godoc
// @Summary      Resolver un código escaneado
// @Description  found=false indica que el cliente debe ofrecer crear el producto con ese código.
// @Tags         scanner
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "Código leído"
// @Success      200   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/scan [post]
func (h *ProductHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Barcode) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "barcode es requerido"})
	}
	return c.JSON(dto.ToScanResponse(h.stock.Scan(in.Barcode)))
}

// Search godoc
// @Summary      Buscar en el catálogo
// @Tags         search
// @Produce      json
// @Param        q    query  string  true  "Texto a buscar"
// @Success      200  {array}  dto.SearchResultResponse
// @Router       /api/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.JSON([]dto.SearchResultResponse{})
	}
	return c.JSON(dto.ToSearchResults(h.stock.Search(q)))
}
