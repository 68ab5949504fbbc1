package server

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/gallery"
)

// filterLink is one entry of the filter bar.
type filterLink struct {
	Filter gallery.Filter
	Label  string
	Active bool
}

// pageData is the template model of the gallery page.
type pageData struct {
	Grid        gallery.Grid
	Filters     []filterLink
	Text        string
	DefaultText string
	Notice      string
}

// GridResponse is the body of GET /api/grid.
type GridResponse struct {
	gallery.Grid
	Filters []gallery.Filter `json:"filters"`
}

// ToggleResponse is the body of POST /api/favorites/{name}.
type ToggleResponse struct {
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
	Glyph    string `json:"glyph"`
	Label    string `json:"label"`
	Rerender bool   `json:"rerender"` // The grid under the request's filter changed
}

// FavoritesResponse is the body of GET /api/favorites.
type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

func readQuery(r *http.Request) (gallery.Filter, string, error) {
	filter, err := gallery.ParseFilter(r.FormValue("filter"))
	if err != nil {
		return "", "", err
	}
	text := r.FormValue("text")
	if err := errors.ValidateSampleText(text); err != nil {
		return "", "", err
	}
	return filter, text, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	filter, text, err := readQuery(r)
	if err != nil {
		// The page never fails on a bad link; it falls back to the defaults.
		filter, text = gallery.DefaultFilter, ""
	}

	favs := s.favoritesFor(r.Context())
	grid := gallery.Render(s.view(favs, filter, text))

	filters := gallery.Filters(s.Catalog())
	links := make([]filterLink, len(filters))
	for i, f := range filters {
		label := f.String()
		if f == gallery.Favorites {
			label = gallery.GlyphFavorite + " " + label
		}
		links[i] = filterLink{Filter: f, Label: label, Active: f == grid.Filter}
	}

	var buf bytes.Buffer
	err = s.page.ExecuteTemplate(&buf, "page", pageData{
		Grid:        grid,
		Filters:     links,
		Text:        text,
		DefaultText: s.defaultText,
		Notice:      r.FormValue("notice"),
	})
	if err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePageToggle(w http.ResponseWriter, r *http.Request) {
	name := fontParam(r)
	favorited, err := s.toggle(r, name)

	q := url.Values{}
	if f := r.FormValue("filter"); f != "" {
		q.Set("filter", f)
	}
	if t := r.FormValue("text"); t != "" {
		q.Set("text", t)
	}
	switch {
	case err != nil:
		q.Set("notice", errors.UserMessage(err))
	case favorited:
		q.Set("notice", "Added "+name+" to favorites")
	default:
		q.Set("notice", "Removed "+name+" from favorites")
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.Catalog()
	if c == nil {
		c = catalog.Catalog{}
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	filter, text, err := readQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	favs := s.favoritesFor(r.Context())
	writeJSON(w, http.StatusOK, GridResponse{
		Grid:    gallery.Render(s.view(favs, filter, text)),
		Filters: gallery.Filters(s.Catalog()),
	})
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	favs := s.favoritesFor(r.Context())
	writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favs.Names()})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	filter, err := gallery.ParseFilter(r.FormValue("filter"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := fontParam(r)
	favorited, err := s.toggle(r, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	font, _ := s.Catalog().Lookup(name)
	card := gallery.NewCard(font, "", favorited)
	writeJSON(w, http.StatusOK, ToggleResponse{
		Name:     name,
		Favorite: favorited,
		Glyph:    card.Glyph,
		Label:    card.Label,
		Rerender: filter == gallery.Favorites,
	})
}
