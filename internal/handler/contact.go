package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/meridianapps/contacts-api/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Age      int    `json:"age"`
	Favorite bool   `json:"favorite"`
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.All()
	if err != nil {
		slog.Error("failed to list contacts", "error", err)
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondData(w, http.StatusOK, contacts)
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contactService.ByID(r.PathValue("contactId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondData(w, http.StatusOK, contact)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	contact, err := h.contactService.Create(req.Name, req.Email, req.Phone, req.Age, req.Favorite)
	if err != nil {
		slog.Error("failed to create contact", "error", err)
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondData(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	contact, err := h.contactService.Update(r.PathValue("contactId"), req.Name, req.Email, req.Phone, req.Age)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondData(w, http.StatusOK, contact)
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

func (h *ContactHandler) UpdateFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	contact, err := h.contactService.UpdateFavorite(r.PathValue("contactId"), req.Favorite)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondData(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.contactService.Delete(r.PathValue("contactId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondMessage(w, http.StatusOK, "Contact deleted")
}
