package handler

import (
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/events"
	"github.com/adforge/adforge/internal/model"
	"github.com/adforge/adforge/internal/supabase"
)

const (
	maxProductImages = 5
	maxUploadBytes   = 10 << 20
	defaultImageType = "application/octet-stream"
)

type ProductHandler struct {
	supa      *supabase.Client
	hub       *events.Hub
	bucket    string
	templates *template.Template
	logger    *slog.Logger
}

func NewProductHandler(supa *supabase.Client, hub *events.Hub, bucket string, templates *template.Template, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		supa:      supa,
		hub:       hub,
		bucket:    bucket,
		templates: templates,
		logger:    logger,
	}
}

func (h *ProductHandler) listProducts(r *http.Request) ([]model.Product, error) {
	var products []model.Product
	err := h.supa.Rest.List(
		r.Context(), auth.AccessToken(r.Context()),
		"products", map[string]string{"user_id": auth.UserID(r.Context())},
		"created_at", &products,
	)
	return products, err
}

func (h *ProductHandler) ProductsPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "Products"}

	products, err := h.listProducts(r)
	if err != nil {
		h.logger.Error("list products", "error", err)
		data["Error"] = apperr.Message(err)
	}
	// An empty slice is the empty state, not an error.
	data["Products"] = products

	render(w, h.templates, "products.html", data)
}

func (h *ProductHandler) NewProductPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.templates, "product_new.html", map[string]any{
		"Title":       "Add Product",
		"Name":        "",
		"Description": "",
		"Price":       "",
		"Category":    "",
	})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := map[string]any{
		"Title":       "Add Product",
		"Name":        strings.TrimSpace(r.FormValue("name")),
		"Description": strings.TrimSpace(r.FormValue("description")),
		"Price":       strings.TrimSpace(r.FormValue("price")),
		"Category":    strings.TrimSpace(r.FormValue("category")),
	}

	name := form["Name"].(string)
	category := form["Category"].(string)
	priceStr := form["Price"].(string)

	if name == "" || category == "" || priceStr == "" {
		form["Error"] = "Name, price, and category are required."
		render(w, h.templates, "product_new.html", form)
		return
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		form["Error"] = "Price must be a non-negative number."
		render(w, h.templates, "product_new.html", form)
		return
	}

	uid := auth.UserID(r.Context())
	token := auth.AccessToken(r.Context())

	var urls []string
	files := r.MultipartForm.File["images"]
	if len(files) > maxProductImages {
		files = files[:maxProductImages]
	}
	for _, fh := range files {
		url, err := h.uploadImage(r, token, uid, fh)
		if err != nil {
			h.logger.Error("upload product image", "file", fh.Filename, "error", err)
			form["Error"] = apperr.Message(err)
			render(w, h.templates, "product_new.html", form)
			return
		}
		urls = append(urls, url)
	}

	product := model.Product{
		UserID:      uid,
		Name:        name,
		Description: form["Description"].(string),
		Price:       price,
		Category:    category,
		ImageURL:    model.JoinImages(urls),
	}
	if err := h.supa.Rest.Insert(r.Context(), token, "products", product); err != nil {
		h.logger.Error("insert product", "error", err)
		form["Error"] = apperr.Message(err)
		render(w, h.templates, "product_new.html", form)
		return
	}

	h.hub.Publish(uid, events.NewEvent("product", events.ActionCreated, ""))
	redirect(w, r, "/products")
}

func (h *ProductHandler) uploadImage(r *http.Request, token, uid string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultImageType
	}

	path := uid + "/" + uuid.NewString() + "-" + filepath.Base(fh.Filename)
	if _, err := h.supa.Storage.Upload(r.Context(), token, h.bucket, path, data, contentType); err != nil {
		return "", err
	}
	return h.supa.Storage.PublicURL(h.bucket, path), nil
}

// APIList serves the product list as JSON for in-page refreshes.
func (h *ProductHandler) APIList(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProducts(r)
	if err != nil {
		h.logger.Error("list products", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": apperr.Message(err)})
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}
