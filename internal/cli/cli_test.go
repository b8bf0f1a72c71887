package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/internal/paths"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// exec runs one notebook invocation and returns stdout, stderr and the
// command error.
func (e env) exec(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// run executes args and fails the test on error.
func (e env) run(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := e.exec(t, args...)
	require.NoError(t, err, "notebook %s", strings.Join(args, " "))
	return out
}

// runJSON executes args with --json and decodes stdout into v.
func (e env) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out := e.run(t, append(args, "--json")...)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

type viewJSON struct {
	Columns []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"columns"`
	Rows []struct {
		ID    string   `json:"id"`
		Cells []string `json:"cells"`
	} `json:"rows"`
}

func (v viewJSON) column(name string) []string {
	idx := -1
	for i, c := range v.Columns {
		if c.ID == name {
			idx = i
		}
	}
	var out []string
	for _, r := range v.Rows {
		if idx >= 0 {
			out = append(out, r.Cells[idx])
		}
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out := newEnv(t).run(t, "version")
	assert.Equal(t, "notebook "+Version+"\n", out)
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	e := newEnv(t)
	e.run(t, "category", "list")

	data, err := os.ReadFile(paths.ConfigFile(e.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.FileExists(t, filepath.Join(e.dataDir, "notebook.db"))
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out := e.run(t, "init")
	assert.Contains(t, out, "created Tasks")

	var cats []struct {
		Name    string `json:"name"`
		Icon    string `json:"icon"`
		Records int    `json:"records"`
	}
	e.runJSON(t, &cats, "category", "list")
	require.Len(t, cats, 5)
	assert.Equal(t, "Tasks", cats[0].Name)
	assert.Equal(t, types.IconCheckSquare, cats[0].Icon)
	for _, c := range cats {
		assert.Zero(t, c.Records, c.Name)
	}

	var created []types.Category
	e.runJSON(t, &created, "init")
	assert.Empty(t, created, "second init creates nothing")
}

func TestInitWithSamples(t *testing.T) {
	e := newEnv(t)
	e.run(t, "init", "--sample")

	var v viewJSON
	e.runJSON(t, &v, "view", "Tasks", "--sort", "title")
	assert.Equal(t, []string{"Complete client assessment", "Update care plan"}, v.column("title"))
}

func TestRecordLifecycle(t *testing.T) {
	e := newEnv(t)
	e.run(t, "category", "create", "Books", "--icon", types.IconLightbulb, "--fields", "Title, Pages, Read On")

	var rec types.Record
	e.runJSON(t, &rec, "record", "add", "books", "title=Dune", "Pages=412", "read on=2024-01-02")
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, "Dune", rec.Values["title"])
	assert.Equal(t, float64(412), rec.Values["pages"])
	assert.Equal(t, "2024-01-02", rec.Values["readOn"])

	e.run(t, "record", "add", "Books", "title=Emma", "pages=1036")

	var v viewJSON
	e.runJSON(t, &v, "view", "Books", "--sort", "pages", "--desc")
	assert.Equal(t, []string{"Emma", "Dune"}, v.column("title"))

	e.run(t, "record", "update", "Books", rec.ID, "pages=", "title=Dune Messiah")
	var got types.Record
	e.runJSON(t, &got, "record", "get", "Books", rec.ID)
	assert.Equal(t, "Dune Messiah", got.Values["title"])
	assert.NotContains(t, got.Values, types.FieldID("pages"))
	assert.Equal(t, "2024-01-02", got.Values["readOn"], "fields not named keep their values")

	out := e.run(t, "record", "get", "Books", rec.ID)
	assert.Contains(t, out, "Read On")

	e.run(t, "record", "delete", "Books", rec.ID, "no-such-id")
	e.runJSON(t, &v, "view", "Books")
	assert.Equal(t, []string{"Emma"}, v.column("title"))

	_, _, err := e.exec(t, "record", "get", "Books", rec.ID)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
}

func TestRecordRejectsUnknownField(t *testing.T) {
	e := newEnv(t)
	e.run(t, "category", "create", "Books", "--fields", "Title")

	_, _, err := e.exec(t, "record", "add", "Books", "author=Herbert")
	assert.ErrorIs(t, err, types.ErrUnknownField)

	_, _, err = e.exec(t, "record", "add", "Books", "title")
	assert.Error(t, err)
}

func TestViewSearchAndFilter(t *testing.T) {
	e := newEnv(t)
	e.run(t, "init", "--sample")

	var v viewJSON
	e.runJSON(t, &v, "view", "Contacts", "--search", "NURSING")
	assert.Len(t, v.Rows, 1)

	e.runJSON(t, &v, "view", "Tasks", "--filter", "status=progress")
	assert.Len(t, v.Rows, 1)

	_, _, err := e.exec(t, "view", "Tasks", "--filter", "nope=x")
	assert.ErrorIs(t, err, types.ErrFieldNotFound)

	out := e.run(t, "view", "Tasks")
	assert.True(t, strings.HasPrefix(out, "ID"), out)
	assert.Contains(t, out, "DUE DATE")
}

func TestFieldCommands(t *testing.T) {
	e := newEnv(t)
	e.run(t, "category", "create", "Books", "--fields", "Title,Pages")
	e.run(t, "record", "add", "Books", "title=Dune", "pages=412")

	var schema types.Schema
	e.runJSON(t, &schema, "field", "add", "Books", "Author")
	assert.Equal(t, []types.FieldID{"title", "pages", "author"}, schema.Fields)

	e.runJSON(t, &schema, "field", "move", "Books", "Author", "1")
	assert.Equal(t, []types.FieldID{"author", "title", "pages"}, schema.Fields)

	e.runJSON(t, &schema, "field", "move", "Books", "author", "9")
	assert.Equal(t, []types.FieldID{"author", "title", "pages"}, schema.Fields, "out of range move is a no-op")

	e.runJSON(t, &schema, "field", "remove", "Books", "pages")
	assert.Equal(t, []types.FieldID{"author", "title"}, schema.Fields)

	e.runJSON(t, &schema, "field", "add", "Books", "Pages")
	var v viewJSON
	e.runJSON(t, &v, "view", "Books")
	assert.Equal(t, []string{"412"}, v.column("pages"), "re-added field shows old values")

	e.run(t, "field", "rename", "Books", "title", "Name")
	e.runJSON(t, &v, "view", "Books")
	assert.Equal(t, []string{""}, v.column("name"), "rename leaves values under the old id")

	e.run(t, "field", "rename", "Books", "pages", "Page Count", "--migrate")
	e.runJSON(t, &v, "view", "Books")
	assert.Equal(t, []string{"412"}, v.column("pageCount"))

	e.runJSON(t, &schema, "field", "list", "Books")
	assert.Equal(t, []types.FieldID{"author", "name", "pageCount"}, schema.Fields)
}

func TestCategoryCommands(t *testing.T) {
	e := newEnv(t)
	var cat types.Category
	e.runJSON(t, &cat, "category", "create", "--template", "meetings")
	assert.Equal(t, "Meetings", cat.Name)
	assert.Equal(t, types.IconCalendar, cat.Icon)

	e.runJSON(t, &cat, "category", "create", "Standups", "--template", "Meetings", "--icon", types.IconUsers)
	assert.Equal(t, "Standups", cat.Name)
	assert.Equal(t, types.IconUsers, cat.Icon)

	_, _, err := e.exec(t, "category", "create", "standups")
	assert.ErrorIs(t, err, types.ErrDuplicateCategory)

	_, _, err = e.exec(t, "category", "create", "Bad", "--icon", "Rocket")
	assert.ErrorIs(t, err, types.ErrInvalidCategory)

	e.runJSON(t, &cat, "category", "rename", "Standups", "Dailies")
	assert.Equal(t, "Dailies", cat.Name)
	assert.Equal(t, types.IconUsers, cat.Icon)

	e.runJSON(t, &cat, "category", "rename", "dailies", "--icon", types.IconBriefcase)
	assert.Equal(t, "Dailies", cat.Name)
	assert.Equal(t, types.IconBriefcase, cat.Icon)

	e.run(t, "category", "delete", "Dailies")
	_, _, err = e.exec(t, "view", "Dailies")
	assert.ErrorIs(t, err, types.ErrCategoryNotFound)
}

func TestImportCSV(t *testing.T) {
	e := newEnv(t)
	dir := t.TempDir()
	file := writeFile(t, dir, "Contacts.csv", "Name,Phone #,Age\nAda,555-0100,36\nAlan,555-0199,41\n")

	var summary struct {
		Sheet    string         `json:"sheet"`
		Category types.Category `json:"category"`
		Created  bool           `json:"created"`
		Records  int            `json:"records"`
	}
	e.runJSON(t, &summary, "import", file)
	assert.Equal(t, "Contacts", summary.Sheet)
	assert.True(t, summary.Created)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, types.DefaultIcon, summary.Category.Icon)
	assert.Equal(t, []types.FieldID{"name", "phone", "age"}, summary.Category.Schema.Fields)

	e.runJSON(t, &summary, "import", file)
	assert.False(t, summary.Created)

	var v viewJSON
	e.runJSON(t, &v, "view", "contacts", "--sort", "age")
	assert.Equal(t, []string{"36", "36", "41", "41"}, v.column("age"))

	extra := writeFile(t, dir, "more.csv", "Name,Email\nGrace,grace@example.com\n")
	_, _, err := e.exec(t, "import", extra, "--category", "Contacts")
	var mismatch *types.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []types.FieldID{"email"}, mismatch.Extra)

	e.runJSON(t, &v, "view", "Contacts")
	assert.Len(t, v.Rows, 4, "rejected import writes nothing")
}

func TestImportWithoutHeader(t *testing.T) {
	e := newEnv(t)
	e.run(t, "category", "create", "Books", "--fields", "Title,Pages")
	file := writeFile(t, t.TempDir(), "books.csv", "Dune,412\nEmma,1036\n")

	e.run(t, "import", file, "--no-header", "--category", "books")
	var v viewJSON
	e.runJSON(t, &v, "view", "Books")
	assert.Equal(t, []string{"Dune", "Emma"}, v.column("title"))

	_, _, err := e.exec(t, "import", file, "--no-header")
	assert.Error(t, err)
}

func TestImportPreviewAndSheets(t *testing.T) {
	e := newEnv(t)
	var b strings.Builder
	b.WriteString("Item,Qty\n")
	for i := 0; i < 8; i++ {
		b.WriteString("widget,1\n")
	}
	file := writeFile(t, t.TempDir(), "stock.csv", b.String())

	out := e.run(t, "import", file, "--preview")
	assert.Contains(t, out, "5 of 8 rows")
	assert.Contains(t, out, "QTY")

	var sheets []string
	e.runJSON(t, &sheets, "import", file, "--sheets")
	assert.Equal(t, []string{"stock"}, sheets)

	var cats []types.Category
	e.runJSON(t, &cats, "category", "list")
	assert.Empty(t, cats, "preview does not import")

	_, _, err := e.exec(t, "import", writeFile(t, t.TempDir(), "notes.txt", "hello"))
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
}

func TestExportRestore(t *testing.T) {
	src := newEnv(t)
	src.run(t, "init", "--sample")
	dump := t.TempDir()
	src.run(t, "export", dump)
	assert.FileExists(t, filepath.Join(dump, "categories.jsonl"))
	assert.FileExists(t, filepath.Join(dump, "records.jsonl"))

	dst := newEnv(t)
	dst.run(t, "category", "create", "Scratch")
	var c counts
	dst.runJSON(t, &c, "restore", dump)
	assert.Equal(t, counts{Categories: 5, Records: 6}, c)

	var want, got viewJSON
	src.runJSON(t, &want, "view", "Projects")
	dst.runJSON(t, &got, "view", "Projects")
	assert.Equal(t, want, got)

	_, _, err := dst.exec(t, "view", "Scratch")
	assert.ErrorIs(t, err, types.ErrCategoryNotFound, "restore replaces the notebook")
}

func TestTemplateList(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	writeFile(t, e.configDir, paths.TemplatesFileName, `templates:
  - name: Recipes
    icon: Lightbulb
    fields: [Dish, Cuisine]
`)

	var list []struct {
		Name string `json:"name"`
	}
	e.runJSON(t, &list, "template", "list")
	require.Len(t, list, 6)
	assert.Equal(t, "Recipes", list[5].Name)

	var cat types.Category
	e.runJSON(t, &cat, "category", "create", "--template", "recipes")
	assert.Equal(t, []types.FieldID{"dish", "cuisine"}, cat.Schema.Fields)
}

func TestLogLevelFromConfigAndDotEnv(t *testing.T) {
	t.Setenv(envLogLevel, "")
	require.NoError(t, os.Unsetenv(envLogLevel))

	e := newEnv(t)
	_, stderr, err := e.exec(t, "category", "list")
	require.NoError(t, err)
	assert.Empty(t, stderr, "default level is warn")

	writeFile(t, e.configDir, paths.EnvFileName, envLogLevel+"=debug\n")
	_, stderr, err = e.exec(t, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)
	args := func(extra ...string) []string {
		return append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, extra...)
	}
	var stderr bytes.Buffer

	assert.Equal(t, exitSuccess, run(NewRootCmd(), args("category", "list"), &stderr))
	assert.Equal(t, exitUserError, run(NewRootCmd(), args("view", "Nope"), &stderr))
	assert.Contains(t, stderr.String(), "category not found")
	assert.Equal(t, exitUserError, run(NewRootCmd(), args("no-such-command"), &stderr))

	blocker := writeFile(t, t.TempDir(), "file", "x")
	bad := []string{"--config-dir", e.configDir, "--data-dir", filepath.Join(blocker, "data"), "category", "list"}
	assert.Equal(t, exitSysError, run(NewRootCmd(), bad, &stderr))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"loud", slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestParseAssignments(t *testing.T) {
	schema, err := types.NewSchema("title", "dueDate", "done")
	require.NoError(t, err)

	values, err := parseAssignments(schema, []string{"Title=Buy milk", "due date=", "done=yes", "count=3"})
	require.NoError(t, err)
	assert.Equal(t, types.Values{
		"title":   "Buy milk",
		"dueDate": nil,
		"done":    "yes",
		"count":   float64(3),
	}, values)

	_, err = parseAssignments(schema, []string{"=x"})
	assert.ErrorIs(t, err, types.ErrInvalidField)
}
