package bootstrap

import (
	"testing"

	"github.com/gusakk/fluxsem/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreludeDependencies(t *testing.T) {
	files, err := ParseCorpus(stdlib.FS())
	require.NoError(t, err)

	deps, err := Dependencies(files, DefaultPrelude()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"system", "date", "math", "strings", "regexp"}, deps)
}

func TestBootstrapStdlib(t *testing.T) {
	res, err := BootstrapFS(stdlib.FS(), Options{Root: "stdlib"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"date",
		"experimental",
		"influxdata/influxdb",
		"influxdata/influxdb/v1",
		"math",
		"regexp",
		"strings",
		"system",
		"testing",
		"universe",
	}, res.Stdlib.Keys())
	assert.Contains(t, res.RebuildTriggers, "stdlib/universe/universe.flux")
	assert.Contains(t, res.RebuildTriggers, "stdlib/influxdata")

	prelude := typeStrings(res.Prelude)
	assert.Equal(t, "() => time", prelude["now"])
	assert.Equal(t, "() => time", prelude["today"])
	assert.Equal(t, "(<-tables: [{A with _value: int}], ?min: int) => [{A with _value: int}]", prelude["keepAbove"])
	assert.Equal(t, "(pattern: string, v: string) => bool", prelude["matches"])
	assert.Equal(t, "(r: float) => float", prelude["circle"])
	assert.Contains(t, prelude, "from", "values of influxdata/influxdb are part of the prelude")

	math, ok := res.Stdlib.Lookup("math")
	require.True(t, ok)
	circleArea, ok := memberType(math, "circleArea")
	require.True(t, ok)
	assert.Equal(t, "(r: float) => float", circleArea.String())

	date, _ := res.Stdlib.Lookup("date")
	isWeekend, ok := memberType(date, "isWeekend")
	require.True(t, ok)
	assert.Equal(t, "(t: A) => bool where A: Timeable", isWeekend.String())

	v1, _ := res.Stdlib.Lookup("influxdata/influxdb/v1")
	bucketNames, ok := memberType(v1, "bucketNames")
	require.True(t, ok)
	assert.Equal(t, "(host: string) => [{name: string}]", bucketNames.String())
}

func TestAnalyzeAgainstStdlib(t *testing.T) {
	res, err := BootstrapFS(stdlib.FS(), Options{})
	require.NoError(t, err)

	values, err := res.Analyze("query.flux", `import "strings"
x = strings.toUpper(v: "a")
y = [{_value: 1}] |> keepAbove(min: 0)
z = from(bucket: "b") |> range(start: -1h) |> filter(fn: (r) => r._measurement == "cpu")`)
	require.NoError(t, err)
	got := typeStrings(values)
	assert.Equal(t, "string", got["x"])
	assert.Equal(t, "[{_value: int}]", got["y"])
	assert.Equal(t, "[{A with _field: string, _measurement: string, _time: time}]", got["z"])
}
