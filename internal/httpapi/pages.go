package httpapi

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/summary"
	"github.com/tastingclub/tastings/internal/tasting"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Form field names shared by both pages.
const (
	fieldSessionNumber   = "session_number"
	fieldDate            = "date"
	fieldTaster          = "taster"
	fieldCoffeeName      = "coffee_name"
	fieldRoastLevel      = "roast_level"
	fieldBrewMethod      = "brew_method"
	fieldShopName        = "shop_name"
	fieldShopAddress     = "shop_address"
	fieldRoasterLocation = "roaster_location"
	fieldBeanOrigin      = "bean_origin"
	fieldAcidity         = "acidity"
	fieldSweetness       = "sweetness"
	fieldBody            = "body"
	fieldOverallRating   = "overall_rating"
	fieldFlavorNotes     = "flavor_notes"
	fieldTastingNotes    = "tasting_notes"
	fieldRevision        = "revision"
)

type row struct {
	Index  int
	Record tasting.Record
}

type bar struct {
	Label string
	Mean  float64
	Count int
	Width float64
}

type pageData struct {
	Form      tasting.Input
	Errors    map[string]string
	Message   string
	Rows      []row
	Revision  string
	Stats     summary.Stats
	Bars      []bar
	ByTaster  bool
	EditIndex int

	RoastLevels []tasting.RoastLevel
	BrewMethods []tasting.BrewMethod
	Countries   []string
	Scores      []int
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"contains": slices.Contains[[]string, string],
		"str":      toString,
		"itoa":     strconv.Itoa,
		"dict":     dict,
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case tasting.RoastLevel:
		return string(v)
	case tasting.BrewMethod:
		return string(v)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func newPageData() pageData {
	scores := make([]int, 0, tasting.MaxScore-tasting.MinScore+1)
	for i := tasting.MinScore; i <= tasting.MaxScore; i++ {
		scores = append(scores, i)
	}
	return pageData{
		Form:        tasting.DefaultInput(),
		Errors:      map[string]string{},
		EditIndex:   -1,
		RoastLevels: tasting.RoastLevels,
		BrewMethods: tasting.BrewMethods,
		Countries:   tasting.Countries,
		Scores:      scores,
	}
}

func formInput(r *http.Request) tasting.Input {
	return tasting.Input{
		SessionNumber:   r.PostFormValue(fieldSessionNumber),
		Date:            r.PostFormValue(fieldDate),
		Taster:          r.PostFormValue(fieldTaster),
		CoffeeName:      r.PostFormValue(fieldCoffeeName),
		RoastLevel:      r.PostFormValue(fieldRoastLevel),
		BrewMethod:      r.PostFormValue(fieldBrewMethod),
		ShopName:        r.PostFormValue(fieldShopName),
		ShopAddress:     r.PostFormValue(fieldShopAddress),
		RoasterLocation: r.PostFormValue(fieldRoasterLocation),
		BeanOrigins:     r.PostForm[fieldBeanOrigin],
		Acidity:         r.PostFormValue(fieldAcidity),
		Sweetness:       r.PostFormValue(fieldSweetness),
		Body:            r.PostFormValue(fieldBody),
		OverallRating:   r.PostFormValue(fieldOverallRating),
		FlavorNotes:     r.PostFormValue(fieldFlavorNotes),
		TastingNotes:    r.PostFormValue(fieldTastingNotes),
	}
}

func (s *Server) indexPage(w http.ResponseWriter, r *http.Request) {
	data := newPageData()
	data.ByTaster = r.URL.Query().Get("by") == "taster"
	s.renderIndex(w, r, http.StatusOK, data)
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := formInput(r)

	if _, _, err := s.svc.Submit(r.Context(), in); err != nil {
		data := newPageData()
		data.Form = in
		s.renderFailure(w, r, "index.html", data, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) editPage(w http.ResponseWriter, r *http.Request) {
	data := newPageData()
	index, err := indexParam(r)
	if err != nil {
		s.renderFailure(w, r, "index.html", data, err)
		return
	}

	rec, table, err := s.svc.Get(r.Context(), index)
	if err != nil {
		s.renderFailure(w, r, "index.html", data, err)
		return
	}
	data.Form = tasting.RawFromRecord(rec)
	data.EditIndex = index
	data.Revision = table.Revision
	s.render(w, http.StatusOK, "edit.html", data)
}

func (s *Server) updateForm(w http.ResponseWriter, r *http.Request) {
	data := newPageData()
	index, err := indexParam(r)
	if err != nil {
		s.renderFailure(w, r, "index.html", data, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := formInput(r)
	revision := r.PostFormValue(fieldRevision)

	_, err = s.svc.Update(r.Context(), services.UpdateInput{Index: index, Input: in, Revision: revision})
	if err != nil {
		data.Form = in
		data.EditIndex = index
		data.Revision = revision
		s.renderFailure(w, r, "edit.html", data, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	data := newPageData()
	index, err := indexParam(r)
	if err != nil {
		s.renderFailure(w, r, "index.html", data, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.svc.Delete(r.Context(), index, r.PostFormValue(fieldRevision)); err != nil {
		s.renderFailure(w, r, "index.html", data, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderFailure shows err on the given page with the mapped status. Field
// errors are attached next to their inputs.
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, page string, data pageData, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("page request failed", "code", code, "error", err)
	}

	var verr *tasting.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			data.Errors[f.Field] = f.Message
		}
		data.Message = "Please correct the highlighted fields."
	} else {
		data.Message = err.Error()
	}

	if page == "index.html" {
		s.renderIndex(w, r, status, data)
		return
	}
	s.render(w, status, page, data)
}

// renderIndex loads the table for the session list and chart. A store error
// still renders the form with the error shown.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	table, err := s.svc.List(r.Context())
	if err != nil {
		loadStatus, code := classify(err)
		s.log.Error("load failed", "code", code, "error", err)
		if data.Message == "" {
			data.Message = err.Error()
		}
		if status == http.StatusOK {
			status = loadStatus
		}
		s.render(w, status, "index.html", data)
		return
	}

	data.Revision = table.Revision
	data.Stats = summary.Overview(table)
	for i, rec := range table.Records {
		data.Rows = append(data.Rows, row{Index: i, Record: rec})
	}
	data.Bars = bars(summary.AverageRatingByCoffee(table, data.ByTaster))
	s.render(w, status, "index.html", data)
}

func bars(averages []summary.Average) []bar {
	out := make([]bar, 0, len(averages))
	for _, a := range averages {
		label := a.Coffee
		if a.Taster != "" {
			label += " (" + a.Taster + ")"
		}
		out = append(out, bar{
			Label: label,
			Mean:  a.Mean,
			Count: a.Count,
			Width: a.Mean / float64(tasting.MaxScore) * 100,
		})
	}
	return out
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, page, data); err != nil {
		s.log.Error("render failed", "page", page, "error", err)
	}
}
