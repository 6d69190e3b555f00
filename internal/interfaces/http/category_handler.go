package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-scanner/internal/application/dto"
	"github.com/jhoicas/stock-scanner/internal/application/stock"
)

// CategoryHandler maneja las peticiones HTTP de la taxonomía (categorías y subcategorías).
type CategoryHandler struct {
	stock *stock.Manager
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(m *stock.Manager) *CategoryHandler {
	return &CategoryHandler{stock: m}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.ToCategoryList(h.stock.Categories()))
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.AddCategory(c.Context(), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCategoryResponse(out))
}

// Update godoc
// @Summary      Renombrar categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.UpdateCategory(c.Context(), c.Params("id"), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToCategoryResponse(out))
}

// Delete godoc
// @Summary      Eliminar categoría (en cascada: subcategorías, productos y movimientos)
// @Tags         categories
// @Param        id   path  string  true  "ID de la categoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.stock.RemoveCategory(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSubcategories subcategorías de una categoría.
// @Summary      Subcategorías de una categoría
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}   dto.SubcategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/subcategories [get]
func (h *CategoryHandler) ListSubcategories(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.stock.GetCategory(id); !ok {
		return notFound(c, "categoría")
	}
	return c.JSON(dto.ToSubcategoryList(h.stock.GetSubcategoriesByCategory(id)))
}

// CreateSubcategory godoc
// @Summary      Crear subcategoría
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSubcategoryRequest  true  "Nombre y categoría"
// @Success      201   {object}  dto.SubcategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *fiber.Ctx) error {
	var in dto.CreateSubcategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.AddSubcategory(c.Context(), in.Name, in.CategoryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSubcategoryResponse(out))
}

// UpdateSubcategory renombra una subcategoría.
// @Summary      Renombrar subcategoría
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la subcategoría"
// @Param        body  body  dto.UpdateSubcategoryRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.SubcategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subcategories/{id} [put]
func (h *CategoryHandler) UpdateSubcategory(c *fiber.Ctx) error {
	var in dto.UpdateSubcategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.UpdateSubcategory(c.Context(), c.Params("id"), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSubcategoryResponse(out))
}

// DeleteSubcategory elimina la subcategoría con sus productos y movimientos.
// @Summary      Eliminar subcategoría con sus productos y movimientos
// @Tags         subcategories
// @Param        id   path  string  true  "ID de la subcategoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subcategories/{id} [delete]
func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	if err := h.stock.RemoveSubcategory(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListProducts productos de una subcategoría.
// @Summary      Productos de una subcategoría
// @Tags         subcategories
// @Produce      json
// @Param        id   path  string  true  "ID de la subcategoría"
// @Success      200  {array}   dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subcategories/{id}/products [get]
func (h *CategoryHandler) ListProducts(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.stock.GetSubcategory(id); !ok {
		return notFound(c, "subcategoría")
	}
	return c.JSON(dto.ToProductList(h.stock.GetProductsBySubcategory(id)))
}
