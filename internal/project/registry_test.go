package project_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/mnemo/internal/merr"
	"github.com/go-ports/mnemo/internal/project"
)

func TestLoad_NonExistentFileReturnsEmptyRegistry(t *testing.T) {
	c := qt.New(t)

	r, err := project.Load("/nonexistent/project-registry.json")
	c.Assert(err, qt.IsNil)
	c.Assert(r.List(), qt.HasLen, 0)
}

func TestCreate_HappyPath(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	webDir := filepath.Join(tmp, "web")
	c.Assert(os.MkdirAll(webDir, 0o755), qt.IsNil)

	rec, err := r.Create("web", webDir, "frontend")
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Name, qt.Equals, "web")
	c.Assert(rec.Paths, qt.HasLen, 1)

	got, err := r.Get("web")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Description, qt.Equals, "frontend")
}

func TestCreate_DuplicateNameFails(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	_, err = r.Create("web", "", "")
	c.Assert(err, qt.IsNil)

	_, err = r.Create("web", "", "")
	c.Assert(err, qt.ErrorIs, merr.ErrAlreadyExists)
}

func TestAddPath_DuplicatePathFails(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	webDir := filepath.Join(tmp, "web")
	c.Assert(os.MkdirAll(webDir, 0o755), qt.IsNil)

	_, err = r.Create("web", webDir, "")
	c.Assert(err, qt.IsNil)

	err = r.AddPath("web", webDir)
	c.Assert(err, qt.ErrorIs, merr.ErrAlreadyExists)
}

func TestAddPath_UnknownProjectFails(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	err = r.AddPath("ghost", tmp)
	c.Assert(err, qt.ErrorIs, merr.ErrNotFound)
}

func TestDetect_FirstMatchingPrefixWins(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	webDir := filepath.Join(tmp, "web")
	subDir := filepath.Join(webDir, "src", "components")
	c.Assert(os.MkdirAll(subDir, 0o755), qt.IsNil)

	_, err = r.Create("web", webDir, "")
	c.Assert(err, qt.IsNil)

	name, ok := r.Detect(subDir)
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "web")
}

func TestDetect_NoMatchReturnsFalse(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	_, ok := r.Detect(tmp)
	c.Assert(ok, qt.IsFalse)
}

func TestDelete_RemovesMapping(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	_, err = r.Create("web", "", "")
	c.Assert(err, qt.IsNil)

	err = r.Delete("web")
	c.Assert(err, qt.IsNil)

	_, err = r.Get("web")
	c.Assert(err, qt.ErrorIs, merr.ErrNotFound)
}

func TestDelete_UnknownProjectFails(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	err = r.Delete("ghost")
	c.Assert(err, qt.ErrorIs, merr.ErrNotFound)
}

func TestRegistry_PersistsAcrossLoad(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	path := filepath.Join(tmp, "project-registry.json")

	r1, err := project.Load(path)
	c.Assert(err, qt.IsNil)
	_, err = r1.Create("backend", "", "api service")
	c.Assert(err, qt.IsNil)

	r2, err := project.Load(path)
	c.Assert(err, qt.IsNil)
	rec, err := r2.Get("backend")
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Description, qt.Equals, "api service")
}

func TestUpdateDescription_HappyPath(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	r, err := project.Load(filepath.Join(tmp, "project-registry.json"))
	c.Assert(err, qt.IsNil)

	_, err = r.Create("web", "", "")
	c.Assert(err, qt.IsNil)

	err = r.UpdateDescription("web", "updated")
	c.Assert(err, qt.IsNil)

	rec, err := r.Get("web")
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Description, qt.Equals, "updated")
}
