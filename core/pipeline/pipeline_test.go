package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/assets"
	"github.com/amehdaoui/coursepipe/core/export"
	"github.com/amehdaoui/coursepipe/core/signature"
	"github.com/amehdaoui/coursepipe/rules"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const vendorIndex = `<?xml version="1.0"?>
<pages>
  <page id="pg1" name="درس الربط" href="1.xml"/>
</pages>`

const connectingPage = `<?xml version="1.0"?>
<page name="p1">
  <textModule id="consigne1"><text><![CDATA[أَرْبُطُ بِمَا يُنَاسِبُ:]]></text></textModule>
  <addonModule addonId="Connection" id="conn1">
    <properties>
      <property name="LeftItems" value="قط&#10;كلب"></property>
      <property name="RightItems" value="حليب&#10;عظم"></property>
      <property name="Text" value="أصل"></property>
    </properties>
  </addonModule>
</page>`

func TestConvertPackageVendor(t *testing.T) {
	pkg := buildZip(t, map[string]string{
		"pages/main.xml": vendorIndex,
		"pages/1.xml":    connectingPage,
	})

	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	conv := New(withClock(func() time.Time { return fixed }))

	results, err := conv.ConvertPackage(context.Background(), pkg)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, "درس الربط", res.Page.Name)

	require.NotNil(t, res.Converted)
	assert.Equal(t, "1.0", res.Converted.Version)
	assert.Equal(t, "2025-03-01T10:00:00Z", res.Converted.Timestamp)
	require.Len(t, res.Converted.Activities, 1)
	assert.Equal(t, core.TypeConnecting, res.Converted.Activities[0].Type)

	require.NotNil(t, res.Doc)
	assert.Equal(t, core.TypeConnecting, res.Doc.ActivityType)
	assert.NoError(t, export.Validate(res.Doc))
}

func TestConvertPackageGenericScan(t *testing.T) {
	pkg := buildZip(t, map[string]string{
		"index.html": `<html><head><title>Unit 1</title></head><body>
			<h1>Welcome</h1><p>Read the story below.</p></body></html>`,
	})

	results, err := New().ConvertPackage(context.Background(), pkg)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, core.DialectGeneric, res.Page.Dialect)
	require.Len(t, res.Converted.Activities, 2)
	assert.Equal(t, core.TypeSplash, res.Converted.Activities[0].Type)
	assert.Equal(t, core.TypeParagraph, res.Converted.Activities[1].Type)
}

const mysteryPage = `<?xml version="1.0"?>
<page name="p1">
  <addonModule addonId="Flashcards_Custom" id="fc1">
    <properties>
      <property name="Front" value="قمر"></property>
      <property name="Back" value="moon"></property>
    </properties>
  </addonModule>
</page>`

func TestTeachThenConvert(t *testing.T) {
	store, err := rules.OpenStore(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	defer store.Close()

	pkg := buildZip(t, map[string]string{
		"pages/main.xml": `<pages><page id="pg1" name="بطاقات" href="1.xml"/></pages>`,
		"pages/1.xml":    mysteryPage,
	})

	ctx := context.Background()
	conv := New(WithRuleStore(store))

	// First pass: nobody understands the module.
	results, err := conv.ConvertPackage(ctx, pkg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Empty(t, results[0].Converted.Activities)
	require.Len(t, results[0].Converted.Unclassified, 1)

	// Teach the shape.
	props := results[0].Converted.Unclassified[0].Properties
	sig := signature.Struct(props)
	_, err = store.Upsert(ctx, sig, "Flashcards_Custom", `<div class="card">{{Front}} = {{Back}}</div>`)
	require.NoError(t, err)

	// Second pass: the module converts through the learned rule.
	results, err = conv.ConvertPackage(ctx, pkg)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Converted.Activities, 1)

	act := results[0].Converted.Activities[0]
	assert.Equal(t, core.TypeLearned, act.Type)
	assert.Equal(t, `<div class="card">قمر = moon</div>`, act.Template)
	assert.Empty(t, results[0].Converted.Unclassified)
}

func TestPageTemplateSupersedes(t *testing.T) {
	store, err := rules.OpenStore(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	defer store.Close()

	pkg := buildZip(t, map[string]string{
		"pages/main.xml": vendorIndex,
		"pages/1.xml":    connectingPage,
	})

	ctx := context.Background()
	conv := New(WithRuleStore(store))

	results, err := conv.ConvertPackage(ctx, pkg)
	require.NoError(t, err)
	pageSig := signature.Page(results[0].Converted.Activities)

	_, err = store.Upsert(ctx, pageSig, "", `<section class="whole-page"></section>`)
	require.NoError(t, err)

	results, err = conv.ConvertPackage(ctx, pkg)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, `<section class="whole-page"></section>`, results[0].Converted.Template)
}

const introPage = `<?xml version="1.0"?>
<page name="p1">
  <textModule id="t1"><text>الدرس الأول</text></textModule>
  <imageModule id="img1"><image src="resources/cover.png"></image></imageModule>
</page>`

func TestConvertPublishesImages(t *testing.T) {
	pkg := buildZip(t, map[string]string{
		"pages/main.xml":      `<pages><page id="pg1" name="مقدمة" href="1.xml"/></pages>`,
		"pages/1.xml":         introPage,
		"resources/cover.png": "png-bytes",
	})

	up, err := assets.NewDirUploader(t.TempDir())
	require.NoError(t, err)

	results, err := New(WithUploader(up)).ConvertPackage(context.Background(), pkg)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	require.Len(t, results[0].Converted.Activities, 1)
	act := results[0].Converted.Activities[0]
	assert.Equal(t, core.TypeSplash, act.Type)
	assert.Equal(t, "resources/cover.png", act.ImagePath)
	assert.NotEmpty(t, act.ImageURL)
}
