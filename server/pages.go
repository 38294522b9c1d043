package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"housingbridge/i18n"
	"housingbridge/models"
	"housingbridge/services"
	"housingbridge/storage"
	"housingbridge/wizard"
)

var templateFuncs = template.FuncMap{
	"number": services.FormatNumber,
	"upper":  strings.ToUpper,
}

// pageData is what the layout template renders.
type pageData struct {
	T         i18n.Strings
	Other     i18n.Strings
	Snap      wizard.Snapshot
	Page      string
	Report    *models.Report
	AutoPrint bool
}

func (s *Server) pageData(snap wizard.Snapshot) pageData {
	d := pageData{
		T:     i18n.For(snap.Lang),
		Other: i18n.For(i18n.Toggle(snap.Lang)),
		Snap:  snap,
		Page:  string(snap.Step),
	}
	if snap.Step == wizard.StepReport {
		d.Report = s.reports.Build(snap.Record, snap.Lang, snap.CaseNumber)
	}
	return d
}

func (s *Server) render(w http.ResponseWriter, d pageData) error {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "layout", d); err != nil {
		return fmt.Errorf("render %s page: %w", d.Page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessions.controller(w, r)
	snap := ctl.Snapshot()
	if err := s.render(w, s.pageData(snap)); err != nil {
		s.logger.Error("[server] %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// The notice is shown once.
	if snap.Notice != "" {
		ctl.DismissNotice()
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessions.controller(w, r)
	ctl.SetPropertyURL(strings.TrimSpace(r.FormValue("url")))
	if err := ctl.Submit(r.Context()); err != nil {
		s.logger.Warn("[server] Submit: %v", err)
	}
	redirectHome(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sessions.controller(w, r).Reset()
	redirectHome(w, r)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.sessions.controller(w, r).Back()
	redirectHome(w, r)
}

// handleConfigure applies the configure form. Fields that do not parse
// are left unchanged; an absent checkbox means false. Submitting with
// next=generate also moves on to the report.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessions.controller(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctl.Apply(parseEdit(r))
	if r.PostFormValue("next") == "generate" {
		ctl.Generate()
	}
	redirectHome(w, r)
}

func parseEdit(r *http.Request) wizard.Edit {
	var e wizard.Edit
	if v, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("price")), 64); err == nil {
		e.Price = &v
	}
	if _, ok := r.PostForm["neighborhood"]; ok {
		n := strings.TrimSpace(r.PostFormValue("neighborhood"))
		e.Neighborhood = &n
	}
	if v, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("scamScore"))); err == nil {
		e.ScamScore = &v
	}
	landlord := r.PostFormValue("landlordVerified") == "on"
	rules := r.PostFormValue("rulesExplained") == "on"
	e.LandlordVerified = &landlord
	e.RulesExplained = &rules
	return e
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.sessions.controller(w, r).Generate()
	redirectHome(w, r)
}

func (s *Server) handleLang(w http.ResponseWriter, r *http.Request) {
	lang := s.sessions.controller(w, r).ToggleLanguage()
	s.logger.Debug("[server] Language is now %s", lang)
	redirectHome(w, r)
}

// handleExport renders the report page set to open the print dialog.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessions.controller(w, r)
	err := ctl.Export(wizard.PrinterFunc(func(snap wizard.Snapshot) error {
		d := s.pageData(snap)
		d.AutoPrint = true
		return s.render(w, d)
	}))
	if err != nil {
		s.logger.Debug("[server] Export: %v", err)
		redirectHome(w, r)
	}
}

// handleExportCSV downloads the session's current record as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.sessions.controller(w, r).Snapshot()

	name := "housingbridge-audit.csv"
	if snap.CaseNumber != "" {
		name = snap.CaseNumber + ".csv"
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	cw, err := storage.NewCSVWriter(w)
	if err != nil {
		s.logger.Error("[server] %v", err)
		return
	}
	row := storage.Row{
		CaseNumber: snap.CaseNumber,
		URL:        snap.PropertyURL,
		Record:     snap.Record,
		AuditedAt:  time.Now().UTC(),
	}
	if err := cw.Write([]storage.Row{row}); err != nil {
		s.logger.Error("[server] %v", err)
		return
	}
	if err := cw.Close(); err != nil {
		s.logger.Error("[server] %v", err)
	}
}
