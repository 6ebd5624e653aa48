package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogersnm/doctag/internal/config"
	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/rogersnm/doctag/internal/repofile"
	"github.com/rogersnm/doctag/internal/session"
	"github.com/rogersnm/doctag/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points the CLI at a fresh data directory whose default root is
// returned, and runs from an empty working directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	resetFlags(rootCmd)
	dir := t.TempDir()
	dataDir = dir
	settings = nil
	repo = nil
	t.Setenv("DOCTAG_ROOT", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return config.DefaultRoot(dir)
}

// resetFlags undoes flag values left over from earlier runs, since cobra
// keeps them on the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	dir := dataDir
	resetFlags(rootCmd)
	dataDir = dir
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// runOut is run with the command output captured.
func runOut(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	err := run(t, args...)
	return buf.String(), err
}

func openRepo(t *testing.T, root string) *store.Repository {
	t.Helper()
	r, err := store.Open(root, nil)
	require.NoError(t, err)
	return r
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestUpload_WithTagsAndComment(t *testing.T) {
	root := setupEnv(t)
	src := writeFile(t, "a.pdf", "alpha")

	require.NoError(t, run(t, "upload", src, "--tags", "x,   y", "--comment", "scanned"))

	docs := openRepo(t, root).Catalogue.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].ID)
	assert.Equal(t, "a.pdf", docs[0].FileName)
	assert.Equal(t, []string{"x", "y"}, docs[0].Tags)
	assert.Equal(t, "scanned", docs[0].Comment)

	data, err := os.ReadFile(filepath.Join(root, "docs", "1", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestUpload_Template(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "template", "set", "tax", "receipt, invoice"))

	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), "--template", "tax", "--tags", "2024, invoice"))

	docs := openRepo(t, root).Catalogue.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"invoice", "receipt", "2024"}, docs[0].Tags)
}

func TestUpload_UnknownTemplate(t *testing.T) {
	root := setupEnv(t)
	assert.Error(t, run(t, "upload", writeFile(t, "a.pdf", "a"), "--template", "nope"))
	assert.Equal(t, 0, openRepo(t, root).Catalogue.Len())
}

func TestUpload_NoTags(t *testing.T) {
	root := setupEnv(t)
	err := run(t, "upload", writeFile(t, "a.pdf", "a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.pdf has no tags")
	assert.Equal(t, 0, openRepo(t, root).Catalogue.Len())
}

func TestUpload_Name(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "scan001.pdf", "a"), "--tags", "x", "--name", "lease.pdf"))

	docs := openRepo(t, root).Catalogue.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "lease.pdf", docs[0].FileName)
}

func TestUpload_NameNeedsOneFile(t *testing.T) {
	root := setupEnv(t)
	err := run(t, "upload", writeFile(t, "a.pdf", "a"), writeFile(t, "b.pdf", "b"), "--tags", "x", "--name", "c.pdf")
	assert.Error(t, err)
	assert.Equal(t, 0, openRepo(t, root).Catalogue.Len())
}

func TestUpload_MissingFile(t *testing.T) {
	setupEnv(t)
	assert.Error(t, run(t, "upload", filepath.Join(t.TempDir(), "gone.pdf"), "--tags", "x"))
}

func TestSearch_Export(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), writeFile(t, "b.txt", "b"), "--tags", "x"))
	require.NoError(t, run(t, "upload", writeFile(t, "c.pdf", "c"), "--tags", "y"))

	dest := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, run(t, "search", "x", "--export", dest))
	assert.Equal(t, []string{"1/a.pdf", "2/b.txt"}, zipNames(t, dest))
}

func TestSearch_CommentField(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), "--tags", "x", "--comment", "paper copy"))

	found, err := runQueryFor(t, []string{"search", "paper", "--field", "comment"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a.pdf", found[0].FileName)
}

func TestSearch_AllTags(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), "--tags", "x, y"))
	require.NoError(t, run(t, "upload", writeFile(t, "b.pdf", "b"), "--tags", "x"))

	found, err := runQueryFor(t, []string{"search", "x, y", "--all"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a.pdf", found[0].FileName)

	found, err = runQueryFor(t, []string{"search", "x", "y"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestSearch_FieldFromEnv(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "report.pdf", "a"), "--tags", "x"))
	t.Setenv("DOCTAG_SEARCH_FIELD", "name")

	found, err := runQueryFor(t, []string{"search", "port"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSearch_InvalidField(t *testing.T) {
	setupEnv(t)
	assert.Error(t, run(t, "search", "x", "--field", "body"))
}

// runQueryFor executes args so flags and settings are resolved, then
// returns what the query matched.
func runQueryFor(t *testing.T, args []string) ([]model.Document, error) {
	t.Helper()
	require.NoError(t, run(t, args...))
	sub, _, err := rootCmd.Find(args)
	require.NoError(t, err)
	return runQuery(sub, sub.Flags().Args())
}

func TestExport_SingleFolder(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), "--tags", "x"))

	dest := filepath.Join(t.TempDir(), "flat")
	require.NoError(t, run(t, "export", dest, "x", "--single-folder"))
	assert.Equal(t, []string{"1-a.pdf"}, zipNames(t, dest+".zip"))
}

func TestExport_NothingFound(t *testing.T) {
	setupEnv(t)
	dest := filepath.Join(t.TempDir(), "out.zip")
	assert.ErrorIs(t, run(t, "export", dest, "nothing"), session.ErrNothingToExport)
	assert.NoFileExists(t, dest)
}

func TestTags_AddRemove(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "tags", "add", "b, a", "c"))
	require.NoError(t, run(t, "tags", "list"))
	assert.Equal(t, []string{"a", "b", "c"}, openRepo(t, root).Config.Config().DefaultTags)

	require.NoError(t, run(t, "tags", "remove", "a"))
	assert.Equal(t, []string{"b", "c"}, openRepo(t, root).Config.Config().DefaultTags)

	assert.Error(t, run(t, "tags", "remove", "zzz"))
	assert.Error(t, run(t, "tags", "add", "   "))
}

func TestTags_RemoveKeepsTemplateOfSameName(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "tags", "add", "tax, misc"))
	require.NoError(t, run(t, "template", "set", "tax", "x"))

	out, err := runOut(t, "tags", "remove", "tax")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 tag(s)")

	cfg := openRepo(t, root).Config.Config()
	assert.Equal(t, []string{"misc"}, cfg.DefaultTags)
	assert.Equal(t, map[string][]string{"tax": {"x"}}, cfg.Templates)

	assert.Error(t, run(t, "tags", "remove", "tax"))
}

func TestTags_AddCountsOnlyNewTags(t *testing.T) {
	root := setupEnv(t)
	r := openRepo(t, root)
	require.NoError(t, os.WriteFile(r.Layout.ConfigPath(), []byte(`{"tags": ["a", "a", "a"], "templates": {}}`), 0644))

	out, err := runOut(t, "tags", "add", "a, b")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 tag(s)")
	assert.Equal(t, []string{"a", "b"}, openRepo(t, root).Config.Config().DefaultTags)
}

func TestExport_CountsOnlyWrittenDocuments(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), writeFile(t, "b.txt", "b"), "--tags", "x"))
	require.NoError(t, os.Remove(filepath.Join(root, "docs", "1", "a.pdf")))

	dest := filepath.Join(t.TempDir(), "out.zip")
	out, err := runOut(t, "export", dest, "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 document(s)")
	assert.Equal(t, []string{"1/b.txt"}, zipNames(t, dest))
}

func TestTemplate_SetRemove(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "template", "set", "tax, vat", "z, y"))
	require.NoError(t, run(t, "template", "list"))

	cfg := openRepo(t, root).Config.Config()
	assert.Equal(t, map[string][]string{"tax": {"y", "z"}, "vat": {"y", "z"}}, cfg.Templates)

	require.NoError(t, run(t, "template", "expand", "tax", "a"))
	require.NoError(t, run(t, "template", "remove", "vat"))
	cfg = openRepo(t, root).Config.Config()
	assert.Equal(t, []string{"tax"}, cfg.TemplateNames())

	assert.Error(t, run(t, "template", "remove", "vat"))
	assert.Error(t, run(t, "template", "expand", "unknown"))
}

func TestConfigImport(t *testing.T) {
	root := setupEnv(t)
	valid := writeFile(t, "tags.json", `{"tags": ["b", "a"], "templates": {"t": ["x"]}}`)
	require.NoError(t, run(t, "config", "import", valid))

	cfg := openRepo(t, root).Config.Config()
	assert.Equal(t, []string{"a", "b"}, cfg.DefaultTags)

	invalid := writeFile(t, "bad.json", `["not", "an", "object"]`)
	assert.Error(t, run(t, "config", "import", invalid))
	assert.Equal(t, cfg, openRepo(t, root).Config.Config())
}

func TestConfigImport_Stdin(t *testing.T) {
	root := setupEnv(t)
	rootCmd.SetIn(strings.NewReader(`{"tags": ["s"], "templates": {}}`))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	require.NoError(t, run(t, "config", "import", "-"))
	assert.Equal(t, []string{"s"}, openRepo(t, root).Config.Config().DefaultTags)
	require.NoError(t, run(t, "config", "show"))
	require.NoError(t, run(t, "config", "path"))
}

func TestDoc_ShowListDelete(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "a"), "--tags", "x"))

	require.NoError(t, run(t, "doc", "list"))
	require.NoError(t, run(t, "doc", "show", "1", "--raw"))
	assert.ErrorIs(t, run(t, "doc", "show", "9"), store.ErrNotFound)
	assert.Error(t, run(t, "doc", "show", "abc"))

	require.NoError(t, run(t, "doc", "delete", "1", "--force"))
	assert.Equal(t, 0, openRepo(t, root).Catalogue.Len())
	assert.NoDirExists(t, filepath.Join(root, "docs", "1"))
}

func TestApplyEdit(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "alpha"), "--tags", "x"))
	d, err := repo.Catalogue.Get(1)
	require.NoError(t, err)

	edited := "---\nid: 1\nfilename: renamed.pdf\ntags: [y, z]\n---\n\nnew comment\n"
	updated, err := applyEdit(d, []byte(edited))
	require.NoError(t, err)
	assert.Equal(t, "renamed.pdf", updated.FileName)
	assert.Equal(t, []string{"y", "z"}, updated.Tags)
	assert.Equal(t, "new comment", updated.Comment)
	assert.FileExists(t, filepath.Join(root, "docs", "1", "renamed.pdf"))

	_, err = applyEdit(updated, []byte("---\nid: 2\nfilename: renamed.pdf\ntags: [y]\n---\n"))
	assert.Error(t, err)
	_, err = applyEdit(updated, []byte("---\nid: 1\nfilename: renamed.pdf\ntags: []\n---\n"))
	assert.Error(t, err)
}

func TestApplyEdit_RoundTripUnchanged(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "upload", writeFile(t, "a.pdf", "alpha"), "--tags", "x", "--comment", "c"))
	d, err := repo.Catalogue.Get(1)
	require.NoError(t, err)

	data, err := markdown.EncodeDocument(d)
	require.NoError(t, err)
	updated, err := applyEdit(d, data)
	require.NoError(t, err)
	assert.Equal(t, d, updated)
}

func TestRoot_Default(t *testing.T) {
	root := setupEnv(t)
	require.NoError(t, run(t, "root", "show"))
	assert.Equal(t, root, repo.Layout.Root)
	assert.FileExists(t, filepath.Join(root, "config.json"))
}

func TestRoot_Env(t *testing.T) {
	setupEnv(t)
	other := filepath.Join(t.TempDir(), "other")
	t.Setenv("DOCTAG_ROOT", other)

	require.NoError(t, run(t, "doc", "list"))
	assert.Equal(t, other, repo.Layout.Root)
}

func TestRoot_LinkUnlink(t *testing.T) {
	setupEnv(t)
	other := filepath.Join(t.TempDir(), "linked")

	require.NoError(t, run(t, "root", "link", other))
	cwd, err := os.Getwd()
	require.NoError(t, err)
	linked, err := repofile.Read(cwd)
	require.NoError(t, err)
	assert.Equal(t, other, linked)

	require.NoError(t, run(t, "doc", "list"))
	assert.Equal(t, other, repo.Layout.Root)

	require.NoError(t, run(t, "root", "unlink"))
	assert.NoFileExists(t, filepath.Join(cwd, repofile.FileName))
	require.NoError(t, run(t, "root", "unlink"))
}

func TestRoot_Set(t *testing.T) {
	setupEnv(t)
	other := filepath.Join(t.TempDir(), "saved")

	require.NoError(t, run(t, "root", "set", other))
	saved, err := config.Load(dataDir)
	require.NoError(t, err)
	assert.Equal(t, other, saved.Root)

	require.NoError(t, run(t, "doc", "list"))
	assert.Equal(t, other, repo.Layout.Root)
}

func TestE2EWorkflow(t *testing.T) {
	root := setupEnv(t)

	// 1. Define tags and a template
	require.NoError(t, run(t, "tags", "add", "invoice, 2024"))
	require.NoError(t, run(t, "template", "set", "tax", "invoice, receipt"))

	// 2. Upload three files
	require.NoError(t, run(t, "upload", writeFile(t, "jan.pdf", "1"), writeFile(t, "feb.pdf", "2"), "--template", "tax"))
	require.NoError(t, run(t, "upload", writeFile(t, "notes.txt", "3"), "--tags", "2024", "--comment", "year notes"))

	// 3. Verify the catalogue
	r := openRepo(t, root)
	require.Equal(t, 3, r.Catalogue.Len())
	assert.Equal(t, 4, r.Catalogue.NextDocID())

	// 4. Strict search is a subset of greedy search
	greedy, err := runQueryFor(t, []string{"search", "invoice, 2024"})
	require.NoError(t, err)
	strict, err := runQueryFor(t, []string{"search", "invoice, 2024", "--all"})
	require.NoError(t, err)
	assert.Len(t, greedy, 3)
	assert.Empty(t, strict)

	// 5. Export the invoices
	dest := filepath.Join(t.TempDir(), "invoices")
	require.NoError(t, run(t, "export", dest, "invoice"))
	assert.Equal(t, []string{"1/jan.pdf", "2/feb.pdf"}, zipNames(t, dest+".zip"))

	// 6. Delete one and upload again: the new folder takes the next free id
	require.NoError(t, run(t, "doc", "delete", "2", "--force"))
	require.NoError(t, run(t, "upload", writeFile(t, "mar.pdf", "4"), "--tags", "invoice"))
	r = openRepo(t, root)
	ids := []int{}
	for _, d := range r.Catalogue.Documents() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int{1, 3, 4}, ids)
}
