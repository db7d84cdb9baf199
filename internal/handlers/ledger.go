package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"finledger"
	"finledger/internal/service"

	"github.com/gin-gonic/gin"
)

const msgInvalidRange = "Invalid date filter; showing all entries."

// indexView is the data for the ledger dashboard page.
type indexView struct {
	Username  string
	Entries   []finledger.Entry
	Summary   finledger.Summary
	StartDate string
	EndDate   string
	Error     string
}

// editView is the data for the entry edit page.
type editView struct {
	Entry    finledger.Entry
	IsIncome bool
	Error    string
}

// index renders the ledger with aggregate totals, optionally filtered by an
// inclusive [startDate, endDate] range from the query string.
func (h *Handler) index(c *gin.Context) {
	identity := currentIdentity(c)
	view := indexView{
		Username:  identity.Username,
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	rng := service.DateRange{From: view.StartDate, To: view.EndDate}

	overview, err := h.services.Overview(c.Request.Context(), identity.UserID, rng)
	if errors.Is(err, service.ErrInvalidRange) {
		// Bad filter input falls back to the unfiltered ledger.
		view.Error = msgInvalidRange
		view.StartDate, view.EndDate = "", ""
		overview, err = h.services.Overview(c.Request.Context(), identity.UserID, service.DateRange{})
	}
	if err != nil {
		h.renderFailure(c, "ledger_list_failed", err, "userId", identity.UserID)
		return
	}

	view.Entries = overview.Entries
	view.Summary = overview.Summary
	c.HTML(http.StatusOK, "index.html", view)
}

func (h *Handler) addEntry(c *gin.Context) {
	identity := currentIdentity(c)
	input := entryInputFromForm(c)

	if _, err := h.services.Add(c.Request.Context(), identity.UserID, input); err != nil {
		if isValidationErr(err) {
			h.renderIndexWithError(c, identity, err.Error())
			return
		}
		h.renderFailure(c, "ledger_add_failed", err, "userId", identity.UserID)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) editForm(c *gin.Context) {
	identity := currentIdentity(c)
	id, ok := entryID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	entry, err := h.services.Ledger.Get(c.Request.Context(), id, identity.UserID)
	if err != nil {
		h.renderFailure(c, "ledger_get_failed", err, "userId", identity.UserID, "entryId", id)
		return
	}
	if entry == nil {
		// Absent and foreign entries look the same: back to the ledger.
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "edit.html", editView{
		Entry:    *entry,
		IsIncome: entry.Type == finledger.TypeIncome,
	})
}

func (h *Handler) editEntry(c *gin.Context) {
	identity := currentIdentity(c)
	id, ok := entryID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	input := entryInputFromForm(c)

	updated, err := h.services.Update(c.Request.Context(), id, identity.UserID, input)
	if err != nil {
		if isValidationErr(err) {
			h.renderEditWithError(c, identity, id, err.Error())
			return
		}
		h.renderFailure(c, "ledger_update_failed", err, "userId", identity.UserID, "entryId", id)
		return
	}
	if !updated && h.log != nil {
		h.log.Infow("ledger_update_miss", "userId", identity.UserID, "entryId", id)
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) deleteEntry(c *gin.Context) {
	identity := currentIdentity(c)
	id, ok := entryID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if _, err := h.services.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		h.renderFailure(c, "ledger_delete_failed", err, "userId", identity.UserID, "entryId", id)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// togglePaid flips the paid flag. A miss (unknown id or another user's
// entry) is a silent no-op.
func (h *Handler) togglePaid(c *gin.Context) {
	identity := currentIdentity(c)
	id, ok := entryID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if _, err := h.services.TogglePaid(c.Request.Context(), id, identity.UserID); err != nil {
		h.renderFailure(c, "ledger_toggle_failed", err, "userId", identity.UserID, "entryId", id)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ---- helpers ----

func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func entryInputFromForm(c *gin.Context) service.EntryInput {
	return service.EntryInput{
		Date:        c.PostForm("date"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Type:        c.PostForm("type"),
		Amount:      c.PostForm("amount"),
		Recurring:   checkboxOn(c.PostForm("recurring")),
		Paid:        checkboxOn(c.PostForm("paid")),
	}
}

// checkboxOn interprets an HTML checkbox value; browsers send "on" when
// checked and omit the field otherwise.
func checkboxOn(v string) bool {
	switch v {
	case "on", "1", "true":
		return true
	default:
		return false
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, finledger.ErrInvalidAmount) ||
		errors.Is(err, finledger.ErrInvalidDate) ||
		errors.Is(err, finledger.ErrInvalidType)
}

// renderIndexWithError re-renders the dashboard (where the add form lives)
// with a validation message, keeping the entered list visible.
func (h *Handler) renderIndexWithError(c *gin.Context, identity service.Identity, msg string) {
	overview, err := h.services.Overview(c.Request.Context(), identity.UserID, service.DateRange{})
	if err != nil {
		h.renderFailure(c, "ledger_list_failed", err, "userId", identity.UserID)
		return
	}
	c.HTML(http.StatusBadRequest, "index.html", indexView{
		Username: identity.Username,
		Entries:  overview.Entries,
		Summary:  overview.Summary,
		Error:    msg,
	})
}

// renderEditWithError re-renders the edit form with a validation message and
// the entry's stored values.
func (h *Handler) renderEditWithError(c *gin.Context, identity service.Identity, id int64, msg string) {
	entry, err := h.services.Ledger.Get(c.Request.Context(), id, identity.UserID)
	if err != nil || entry == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusBadRequest, "edit.html", editView{
		Entry:    *entry,
		IsIncome: entry.Type == finledger.TypeIncome,
		Error:    msg,
	})
}
