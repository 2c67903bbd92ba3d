package normalize_test

import (
	"testing"

	"github.com/callahq/matchengine/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestToken(t *testing.T) {
	Convey("Given raw token text", t, func() {
		Convey("When it carries case and surrounding whitespace", func() {
			So(normalize.Token("  Java  "), ShouldEqual, "java")
			So(normalize.Token("PostgreSQL"), ShouldEqual, "postgresql")
		})

		Convey("When it is empty or whitespace only", func() {
			So(normalize.Token(""), ShouldEqual, "")
			So(normalize.Token("   "), ShouldEqual, "")
		})
	})
}

func TestSplitList(t *testing.T) {
	Convey("Given a structured skill list", t, func() {
		Convey("When split on commas", func() {
			So(normalize.SplitList("Java, Spring, SQL"), ShouldResemble, []string{"java", "spring", "sql"})
		})

		Convey("When split on semicolons and newlines", func() {
			So(normalize.SplitList("Go; Docker\nKubernetes"), ShouldResemble, []string{"go", "docker", "kubernetes"})
		})

		Convey("When tokens repeat with different casing", func() {
			So(normalize.SplitList("SQL, sql, Sql"), ShouldResemble, []string{"sql"})
		})

		Convey("When the list is empty or only separators", func() {
			So(normalize.SplitList(""), ShouldBeEmpty)
			So(normalize.SplitList(", ;\n,"), ShouldBeEmpty)
		})

		Convey("Then first-appearance order is preserved", func() {
			So(normalize.SplitList("Zig, Ada, zig, COBOL"), ShouldResemble, []string{"zig", "ada", "cobol"})
		})
	})
}

func TestTokenSet(t *testing.T) {
	Convey("Given a list of raw tokens", t, func() {
		set := normalize.TokenSet([]string{" Java ", "SQL", ""})

		Convey("Then lookups are case-insensitive and trimmed", func() {
			So(set["java"], ShouldBeTrue)
			So(set["sql"], ShouldBeTrue)
			So(set[""], ShouldBeFalse)
			So(set["spring"], ShouldBeFalse)
		})
	})
}

func TestWords(t *testing.T) {
	Convey("Given free résumé text", t, func() {
		Convey("When it contains stop words and short tokens", func() {
			words := normalize.Words("I am a developer with Go and the SQL")
			So(words, ShouldContain, "developer")
			So(words, ShouldContain, "sql")
			So(words, ShouldNotContain, "and")
			So(words, ShouldNotContain, "the")
			So(words, ShouldNotContain, "am")
		})

		Convey("When it contains tech terms with symbols", func() {
			words := normalize.Words("Worked with C++, C# and node.js daily")
			So(words, ShouldContain, "c++")
			So(words, ShouldContain, "c#")
			So(words, ShouldContain, "node.js")
		})

		Convey("When a word ends a sentence", func() {
			So(normalize.Words("Experienced engineer."), ShouldContain, "engineer")
		})

		Convey("Then duplicates appear once", func() {
			So(normalize.Words("golang golang golang"), ShouldResemble, []string{"golang"})
		})
	})
}

func TestContainsFold(t *testing.T) {
	Convey("Given two location strings", t, func() {
		Convey("When one contains the other regardless of case", func() {
			So(normalize.ContainsFold("Greater Berlin Area", "berlin"), ShouldBeTrue)
			So(normalize.ContainsFold("berlin", "Greater Berlin Area"), ShouldBeTrue)
		})

		Convey("When they are unrelated", func() {
			So(normalize.ContainsFold("Munich", "Hamburg"), ShouldBeFalse)
		})

		Convey("When either side is empty", func() {
			So(normalize.ContainsFold("", "Berlin"), ShouldBeFalse)
			So(normalize.ContainsFold("Berlin", "  "), ShouldBeFalse)
			So(normalize.ContainsFold("", ""), ShouldBeFalse)
		})
	})
}
