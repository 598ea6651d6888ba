package pofile

import (
	"reflect"
	"testing"
)

func assert_equal(t *testing.T, expected string, got string) {
	t.Helper()
	if expected != got {
		t.Logf("%q != %q", expected, got)
		t.Fail()
	}
}

func assertDeepEqual(t *testing.T, expected, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, got) {
		t.Logf("%#v != %#v", expected, got)
		t.Fail()
	}
}

// messageTriples reduces entries to their (msgctxt, msgid, msgid_plural)
// identity.
func messageTriples(entries []Entry) [][3]string {
	triples := make([][3]string, 0, len(entries))
	for _, e := range entries {
		triples = append(triples, [3]string{e.MsgContext, e.Msgid, e.MsgidPlural})
	}
	return triples
}
