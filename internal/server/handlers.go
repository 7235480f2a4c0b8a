// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package server

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/elliotnunn/resourceform/internal/dcmp"
	"github.com/elliotnunn/resourceform/internal/logging"
	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

const headerRequestID = "X-Request-ID"

// Register adds the routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.Use(s.requestID)
	e.GET("/api/files", s.handleFile)
	e.GET("/api/resources", s.handleResources)
	e.GET("/api/data", s.handleData)
	e.GET("/fs/*", s.handleFS)
}

// requestID tags the response, and the logger in the request context.
func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		req := c.Request()
		id := req.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(headerRequestID, id)
		log := s.log.With("request_id", id)
		c.SetRequest(req.WithContext(logging.WithContext(req.Context(), log)))
		return next(c)
	}
}

type fileInfo struct {
	Path       string     `json:"path"`
	DataOffset uint32     `json:"data_offset"`
	DataLength uint32     `json:"data_length"`
	MapOffset  uint32     `json:"map_offset"`
	MapLength  uint32     `json:"map_length"`
	Attributes string     `json:"attributes"`
	Streamed   bool       `json:"streamed"`
	Resources  int        `json:"resources"`
	Types      []typeInfo `json:"types"`
}

type typeInfo struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type resourceInfo struct {
	Type        string  `json:"type"`
	ID          int16   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Attributes  string  `json:"attributes"`
	RawLength   uint32  `json:"raw_length"`
	Length      *uint32 `json:"length,omitempty"`
	Compression string  `json:"compression,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeError(c *echo.Context, status int, err error) error {
	logging.FromContext(c.Request().Context()).Warn("requestFailed",
		"path", c.Request().URL.Path, "status", status, "err", err)
	return writeJSON(c, status, errorBody{Error: err.Error()})
}

// statusOf maps an opening or reading error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errOutsideRoot), errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, resourcefork.ErrFormat), errors.Is(err, dcmp.ErrDecompress):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var errBadQuery = errors.New("bad query")

func (s *Server) withFile(c *echo.Context, fn func(f *openFile) error) error {
	p := c.QueryParam("path")
	if p == "" {
		return writeError(c, http.StatusBadRequest, errors.New("missing path parameter"))
	}
	f, err := s.acquire(p)
	if err != nil {
		return writeError(c, statusOf(err), err)
	}
	defer f.release()
	return fn(f)
}

func (s *Server) handleFile(c *echo.Context) error {
	return s.withFile(c, func(f *openFile) error {
		info := fileInfo{
			Path:       c.QueryParam("path"),
			DataOffset: f.DataOffset,
			DataLength: f.DataLength,
			MapOffset:  f.MapOffset,
			MapLength:  f.MapLength,
			Attributes: f.Attributes.String(),
			Streamed:   f.Streaming(),
			Resources:  f.Count(),
			Types:      []typeInfo{},
		}
		for _, t := range f.Types() {
			info.Types = append(info.Types, typeInfo{Type: t.String(), Count: len(f.Resources(t))})
		}
		return writeJSON(c, http.StatusOK, info)
	})
}

func (s *Server) handleResources(c *echo.Context) error {
	return s.withFile(c, func(f *openFile) error {
		types := f.Types()
		if q := c.QueryParam("type"); q != "" {
			t, err := resourcefork.ParseType(q)
			if err != nil {
				return writeError(c, http.StatusBadRequest, err)
			}
			if len(f.Resources(t)) == 0 {
				return writeError(c, http.StatusNotFound, fs.ErrNotExist)
			}
			types = []resourcefork.Type{t}
		}

		list := []resourceInfo{}
		for _, t := range types {
			for _, r := range f.Resources(t) {
				list = append(list, describe(r))
			}
		}
		return writeJSON(c, http.StatusOK, list)
	})
}

func describe(r *resourcefork.Resource) resourceInfo {
	info := resourceInfo{
		Type:       r.Type.String(),
		ID:         r.ID,
		Attributes: r.Attributes.String(),
	}
	var errs []error
	if r.HasName() {
		name, err := r.Name()
		errs = append(errs, err)
		if err == nil {
			s := resourcefork.MacRoman(name)
			info.Name = &s
		}
	}
	n, err := r.RawLength()
	errs = append(errs, err)
	info.RawLength = n
	if r.Compressed() {
		if h, err := r.CompressedInfo(); err != nil {
			errs = append(errs, err)
		} else {
			info.Compression = h.String()
		}
	}
	if n, err := r.Length(); err == nil {
		info.Length = &n
	}
	if err := errors.Join(errs...); err != nil {
		info.Error = err.Error()
	}
	return info
}

func (s *Server) handleData(c *echo.Context) error {
	return s.withFile(c, func(f *openFile) error {
		t, err := resourcefork.ParseType(c.QueryParam("type"))
		if err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
		id, err := strconv.ParseInt(c.QueryParam("id"), 10, 16)
		if err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
		r, ok := f.Lookup(t, int16(id))
		if !ok {
			return writeError(c, http.StatusNotFound, fs.ErrNotExist)
		}

		raw, _ := strconv.ParseBool(c.QueryParam("raw"))
		var data []byte
		if raw {
			data, err = r.RawData()
		} else {
			data, err = r.Data()
		}
		if err != nil {
			return writeError(c, statusOf(err), err)
		}
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
	})
}

// handleFS serves /fs/CONTAINER/TYPE/ID, where CONTAINER is the longest
// prefix naming a regular file below the root.
func (s *Server) handleFS(c *echo.Context) error {
	const prefix = "/fs/"
	rest := strings.TrimPrefix(c.Request().URL.Path, prefix)
	container, err := s.splitContainer(rest)
	if err != nil {
		return writeError(c, statusOf(err), err)
	}
	if rest == container {
		// Directory listings hold relative links
		return c.Redirect(http.StatusMovedPermanently, (&url.URL{Path: prefix + container + "/"}).String())
	}

	f, err := s.acquire(container)
	if err != nil {
		return writeError(c, statusOf(err), err)
	}
	defer f.release()

	fsys := f.FS()
	fsys.ModTime = f.stat.ModTime()
	h := http.StripPrefix(prefix+container, http.FileServerFS(fsys))
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *Server) splitContainer(p string) (string, error) {
	p = strings.Trim(p, "/")
	for cut := p; cut != "." && cut != ""; cut = path.Dir(cut) {
		name, err := s.local(cut)
		if err != nil {
			return "", err
		}
		if st, err := os.Stat(name); err == nil && st.Mode().IsRegular() {
			return cut, nil
		}
	}
	return "", &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
}
