// Package fileserv shares a program library over HTTP
// the server side wraps any Storage, Client is a Storage that talks to it
package fileserv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/object"
)

// route names
const (
	ProgramRt  = "program"
	SaveRt     = "save"
	ProgramsRt = "programs"
)

// program names are letters, digits, '-', '_' and '.', but not a leading '.'
const namePattern = `{name:[A-Za-z0-9_\-][A-Za-z0-9_.\-]*}`

const listingType = "text/plain; charset=ASCII"

// Lister is a Storage that can also name the programs it holds
type Lister interface {
	Programs() ([]string, error)
}

type programSource struct {
	store object.Storage
}

// NewRouter builds the routes that serve programs out of store
//
//	GET /programs/{name}   the listing
//	PUT /programs/{name}   replace it
//	GET /programs          names, when store is a Lister
func NewRouter(store object.Storage) *mux.Router {
	rtr := mux.NewRouter()
	ps := &programSource{store: store}

	rtr.HandleFunc("/programs/"+namePattern, ps.serveProgram).Methods(http.MethodGet).Name(ProgramRt)
	rtr.HandleFunc("/programs/"+namePattern, ps.saveProgram).Methods(http.MethodPut).Name(SaveRt)

	if _, ok := store.(Lister); ok {
		rtr.HandleFunc("/programs", ps.listPrograms).Methods(http.MethodGet).Name(ProgramsRt)
	}

	return rtr
}

// serveProgram sends the listing of a program
func (ps *programSource) serveProgram(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	lines, err := ps.store.Load(name)
	if errors.Is(err, object.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Warn("program load failed", "name", name, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := ast.WriteListing(&buf, lines); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", listingType)
	w.Write(buf.Bytes())
}

// saveProgram stores the listing in the request body
func (ps *programSource) saveProgram(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	lines, err := ast.ReadListing(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := ps.store.Save(name, lines); err != nil {
		slog.Warn("program save failed", "name", name, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listPrograms sends the program names, one per row
func (ps *programSource) listPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := ps.store.(Lister).Programs()
	if err != nil {
		slog.Warn("program list failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", listingType)
	for _, n := range names {
		io.WriteString(w, n+"\n")
	}
}

// Client is a Storage backed by a program server
type Client struct {
	Base string            // eg. http://localhost:8080
	HTTP object.HttpClient // usually an *http.Client
}

func (c *Client) programURL(name string) string {
	return strings.TrimRight(c.Base, "/") + "/programs/" + url.PathEscape(name)
}

// Load fetches a program from the server
func (c *Client) Load(name string) ([]ast.SourceLine, error) {
	rsp, err := c.HTTP.Get(c.programURL(name))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer rsp.Body.Close()

	switch rsp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, object.ErrNotFound)
	default:
		return nil, fmt.Errorf("fetch %s: server said %s", name, rsp.Status)
	}

	return ast.ReadListing(rsp.Body)
}

// Save sends a program to the server
func (c *Client) Save(name string, lines []ast.SourceLine) error {
	var buf bytes.Buffer
	if err := ast.WriteListing(&buf, lines); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPut, c.programURL(name), &buf)
	if err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	req.Header.Set("Content-Type", listingType)

	rsp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusNoContent && rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("send %s: server said %s", name, rsp.Status)
	}
	return nil
}
