package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/validation"
)

type BooksController struct {
	service   services.BookService
	validator services.BookValidator
}

func NewBooksController(service services.BookService, validator services.BookValidator) *BooksController {
	return &BooksController{
		service:   service,
		validator: validator,
	}
}

// List returns every book, or only those whose title contains searchTerm.
func (controller *BooksController) List(c *gin.Context) {
	term := c.Query("searchTerm")

	var (
		books []entities.Book
		err   error
	)
	if strings.TrimSpace(term) == "" {
		books, err = controller.service.GetAll(c.Request.Context())
	} else {
		books, err = controller.service.SearchByTitle(c.Request.Context(), term)
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}

	c.JSON(http.StatusOK, books)
}

func (controller *BooksController) Get(c *gin.Context) {
	book, err := controller.service.GetByIsbn(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) Create(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if failures := controller.validator.ValidateBook(&book); len(failures) > 0 {
		c.JSON(http.StatusBadRequest, failures)
		return
	}

	created, err := controller.service.Create(c.Request.Context(), &book)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	if !created {
		c.JSON(http.StatusBadRequest, []validation.Failure{{
			PropertyName: "Isbn",
			ErrorMessage: fmt.Sprintf("A book with ISBN-13 %s already exists", book.Isbn),
		}})
		return
	}

	c.Header("Location", "/books/"+book.Isbn)
	c.JSON(http.StatusCreated, book)
}

// Update replaces a stored book. The ISBN in the path takes precedence over the body.
func (controller *BooksController) Update(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	book.Isbn = c.Param("isbn")

	if failures := controller.validator.ValidateBook(&book); len(failures) > 0 {
		c.JSON(http.StatusBadRequest, failures)
		return
	}

	updated, err := controller.service.Update(c.Request.Context(), &book)
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	if !updated {
		respondNotFound(c)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) Delete(c *gin.Context) {
	deleted, err := controller.service.Delete(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if !deleted {
		respondNotFound(c)
		return
	}

	c.Status(http.StatusNoContent)
}
