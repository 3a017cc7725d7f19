package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/aupwu/internal/union/session"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/aussiebroadwan/aupwu/internal/union/web"
)

func (r *Router) handleAdminDashboard(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	stats, err := r.Reports.Demographics(ctx)
	if err != nil {
		serverError(w, req, "failed to build demographics", err)
		return
	}
	committees, err := r.store.Committees().ListCommittees(ctx)
	if err != nil {
		serverError(w, req, "failed to list committees", err)
		return
	}

	r.render(w, req, http.StatusOK, web.PageAdminDashboard, web.Page{
		Title:        "Admin Dashboard",
		Demographics: &stats,
		Committees:   committees,
	})
}

func (r *Router) handleOfficerDashboard(w http.ResponseWriter, req *http.Request) {
	committees, err := r.store.Committees().ListCommittees(req.Context())
	if err != nil {
		serverError(w, req, "failed to list committees", err)
		return
	}

	r.render(w, req, http.StatusOK, web.PageOfficerDashboard, web.Page{
		Title:      "Officer Dashboard",
		Committees: committees,
	})
}

func (r *Router) handleMemberDashboard(w http.ResponseWriter, req *http.Request) {
	uid, _ := session.FromContext(req.Context()).UserID()

	p := web.Page{Title: "Member Dashboard"}
	m, err := r.store.Members().GetMemberByUserID(req.Context(), uid)
	switch {
	case err == nil:
		p.Member = &m
	case !errors.Is(err, store.ErrNotFound):
		serverError(w, req, "failed to load member profile", err)
		return
	}

	r.render(w, req, http.StatusOK, web.PageMemberDashboard, p)
}
