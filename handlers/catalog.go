package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"yourrest-api/media"
	"yourrest-api/models"
	"yourrest-api/services"
)

// formImage opens an optional multipart file; the returned closer is never nil.
func formImage(c *gin.Context, field string) (*services.Image, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	if fh.Size > media.MaxFileSize {
		return nil, noop, fmt.Errorf("%w: %s is larger than %d bytes", services.ErrValidation, field, media.MaxFileSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", field, err)
	}
	return &services.Image{File: f, Filename: fh.Filename}, func() { f.Close() }, nil
}

func menuInput(c *gin.Context) (services.MenuInput, func(), error) {
	in := services.MenuInput{Name: c.PostForm("name")}
	if raw := c.PostForm("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return in, func() {}, fmt.Errorf("%w: price %q is not a number", services.ErrValidation, raw)
		}
		in.Price = price
	}
	img, closeImg, err := formImage(c, "image")
	in.Image = img
	return in, closeImg, err
}

// GetMenu lists menu items, optionally narrowed by ?q=
func (h *Handler) GetMenu(c *gin.Context) {
	items, err := h.Catalog.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err, "Failed to load menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// AddMenuItem uploads the image and then stores the item (admin only)
func (h *Handler) AddMenuItem(c *gin.Context) {
	in, closeImg, err := menuInput(c)
	defer closeImg()
	if err != nil {
		fail(c, err, "Please fill all the details!")
		return
	}
	item, err := h.Catalog.Create(c.Request.Context(), in)
	if err != nil {
		msg := "Error adding item!"
		if errors.Is(err, services.ErrValidation) {
			msg = "Please fill all the details!"
		}
		fail(c, err, msg)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Menu item added",
		"item":         item,
		"notification": models.Success("Item added successfully!"),
	})
}

// UpdateMenuItem edits name and price; a new image replaces the old one
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	in, closeImg, err := menuInput(c)
	defer closeImg()
	if err != nil {
		fail(c, err, "Please fill all the details!")
		return
	}
	item, err := h.Catalog.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err, "Error updating item!")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Menu item updated",
		"item":         item,
		"notification": models.Success("Item updated successfully!"),
	})
}

// DeleteMenuItem removes a menu item; requires ?confirm=true
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	err := h.Catalog.Delete(c.Request.Context(), c.Param("id"), c.Query("confirm") == "true")
	if errors.Is(err, services.ErrConfirmationRequired) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Deleting an item cannot be undone; repeat the request with confirm=true",
			"notification": models.Info("Are you sure you want to delete this item?"),
		})
		return
	}
	if err != nil {
		fail(c, err, "Error deleting item!")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted", "notification": models.Success("Item deleted successfully!")})
}
