package strip

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/codecleaner/pkg/jslex"
)

var defaultCallees = []string{"console.log"}

func TestLogCalls(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		jsx     bool
		callees []string
		want    string
	}{
		{
			name: "simple_statement",
			src:  "console.log('hi');\nfoo();\n",
			want: "foo();\n",
		},
		{
			name: "nested_parens",
			src:  "console.log(foo(bar(1, 2)));\ndone();\n",
			want: "done();\n",
		},
		{
			name: "multiline_call",
			src:  "function f() {\n  console.log(\n    'a',\n    b(c)\n  );\n  return 1;\n}\n",
			want: "function f() {\n  return 1;\n}\n",
		},
		{
			name: "parens_inside_literals",
			src:  "console.log(')(', `${a(')')}`, /\\)/);\nnext();\n",
			want: "next();\n",
		},
		{
			name: "comment_inside_arguments",
			src:  "console.log(/* ) */ x);\n",
			want: "",
		},
		{
			name: "identifier_prefix_not_matched",
			src:  "myconsole.log(x);\nconsole.logger(x);\nfoo.console.log(x);\n",
			want: "myconsole.log(x);\nconsole.logger(x);\nfoo.console.log(x);\n",
		},
		{
			name: "sub_expressions_kept",
			src: "x = console.log(1);\n" +
				"ok && console.log(2);\n" +
				"const f = () => console.log(3);\n" +
				"console.log(4).then(done);\n" +
				"console.log(5) || other();\n",
			want: "x = console.log(1);\n" +
				"ok && console.log(2);\n" +
				"const f = () => console.log(3);\n" +
				"console.log(4).then(done);\n" +
				"console.log(5) || other();\n",
		},
		{
			name: "control_body_replaced_with_empty_statement",
			src:  "if (debug) console.log(state);\nelse run();\n",
			want: "if (debug);\nelse run();\n",
		},
		{
			name: "asi_statements",
			src:  "const a = 1\nconsole.log(a)\nrun()\n",
			want: "const a = 1\nrun()\n",
		},
		{
			name: "asi_continuation_kept",
			src:  "console.log(a)\n(b || c).run()\n",
			want: "console.log(a)\n(b || c).run()\n",
		},
		{
			name: "case_labels",
			src:  "switch (k) {\n  case 1: console.log('one'); break;\n  default:\n    console.log('other');\n}\n",
			want: "switch (k) {\n  case 1: break;\n  default:\n}\n",
		},
		{
			name: "template_spaces_on_same_line",
			src:  "console.log(1); const s = `a   \nb`;\n",
			want: "const s = `a   \nb`;\n",
		},
		{
			name: "asi_semicolon_then_paren",
			src:  "const a = b\nconsole.log(1);\n(function () { init() })()\n",
			want: "const a = b\n;\n(function () { init() })()\n",
		},
		{
			name: "asi_semicolon_then_bracket",
			src:  "let x = y\nconsole.log(1);\n[1, 2].forEach(f)\n",
			want: "let x = y\n;\n[1, 2].forEach(f)\n",
		},
		{
			name: "object_literal_then_template",
			src:  "const o = {}\nconsole.log(o);\n`x`.trim()\n",
			want: "const o = {}\n;\n`x`.trim()\n",
		},
		{
			name: "terminated_statement_then_paren",
			src:  "run();\nconsole.log(1);\n(f)()\n",
			want: "run();\n(f)()\n",
		},
		{
			name: "ternary_kept",
			src:  "x ? console.log(1) : console.log(2);\n",
			want: "x ? console.log(1) : console.log(2);\n",
		},
		{
			name: "after_block_close",
			src:  "if (a) {\n  run();\n} console.log(1);\n",
			want: "if (a) {\n  run();\n}\n",
		},
		{
			name: "template_substitution_kept",
			src:  "s = `${console.log(1)}`;\n",
			want: "s = `${console.log(1)}`;\n",
		},
		{
			name: "jsx_container_kept",
			src:  "x = <b>{console.log(1)}</b>;\n",
			jsx:  true,
			want: "x = <b>{console.log(1)}</b>;\n",
		},
		{
			name: "unbalanced_call_kept",
			src:  "console.log((1);\n",
			want: "console.log((1);\n",
		},
		{
			name:    "custom_callees",
			src:     "console.debug(x);\nlogger.trace(y);\nconsole.log(z);\n",
			callees: []string{"console.debug", "logger.trace"},
			want:    "console.log(z);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callees := tt.callees
			if callees == nil {
				callees = defaultCallees
			}
			opts := jslex.Options{JSX: tt.jsx}

			got, err := LogCalls([]byte(tt.src), opts, callees)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))

			again, err := LogCalls(got, opts, callees)
			require.NoError(t, err)
			require.Equal(t, string(got), string(again), "second pass changed output")
		})
	}
}

func TestLogCalls_TokenizeError(t *testing.T) {
	src := []byte("console.log(`open);\n")
	got, err := LogCalls(src, jslex.Options{}, defaultCallees)
	require.Error(t, err)
	require.Equal(t, string(src), string(got))
}

func TestPipeline_EndToEnd(t *testing.T) {
	src := []byte("// header\nfunction f() {\n  console.log('hi');\n  return 1;\n}\n")

	out, err := Comments(src, jslex.Options{})
	require.NoError(t, err)
	out, err = LogCalls(out, jslex.Options{}, defaultCallees)
	require.NoError(t, err)
	require.Equal(t, "function f() {\n  return 1;\n}\n", string(out))
}
