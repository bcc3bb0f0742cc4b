package provider

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/recall/pkg/memory"
)

func TestParseFacts(t *testing.T) {
	convey.Convey("Given extraction responses", t, func() {

		convey.Convey("When parsing a well formed envelope", func() {
			facts, err := parseFacts(`{"facts":[{"text":"User lives in Hyderabad","category":"profile","slot":"location","confidence":0.97}]}`)

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts, convey.ShouldHaveLength, 1)
			convey.So(facts[0].Text, convey.ShouldEqual, "User lives in Hyderabad")
			convey.So(facts[0].Category, convey.ShouldEqual, memory.CategoryProfile)
			convey.So(facts[0].Slot, convey.ShouldEqual, "location")
			convey.So(facts[0].Confidence, convey.ShouldAlmostEqual, 0.97)
		})

		convey.Convey("When the JSON arrives wrapped in a markdown fence", func() {
			facts, err := parseFacts("```json\n{\"facts\":[{\"text\":\"User enjoys playing football\",\"category\":\"preference\",\"slot\":\"hobby\",\"confidence\":0.88}]}\n```")

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts, convey.ShouldHaveLength, 1)
			convey.So(facts[0].Category, convey.ShouldEqual, memory.CategoryPreference)
		})

		convey.Convey("When the message was chit-chat", func() {
			facts, err := parseFacts(`{"facts": []}`)

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts, convey.ShouldNotBeNil)
			convey.So(facts, convey.ShouldBeEmpty)
		})

		convey.Convey("When the slot is null", func() {
			facts, err := parseFacts(`{"facts":[{"text":"User changed jobs","category":"event","slot":null,"confidence":0.8}]}`)

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts[0].Slot, convey.ShouldBeEmpty)
		})

		convey.Convey("When the category is unrecognized", func() {
			facts, err := parseFacts(`{"facts":[{"text":"User mentioned a thing","category":"biographical","slot":null,"confidence":0.5}]}`)

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts[0].Category, convey.ShouldEqual, memory.CategoryOther)
		})

		convey.Convey("When confidence falls outside the unit interval", func() {
			facts, err := parseFacts(`{"facts":[{"text":"Overconfident","category":"other","slot":null,"confidence":1.7},{"text":"Underconfident","category":"other","slot":null,"confidence":-0.2}]}`)

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts[0].Confidence, convey.ShouldEqual, 1.0)
			convey.So(facts[1].Confidence, convey.ShouldEqual, 0.0)
		})

		convey.Convey("When a fact has no text", func() {
			facts, err := parseFacts(`{"facts":[{"text":"  ","category":"profile","slot":null,"confidence":0.9},{"text":"User has a dog","category":"profile","slot":null,"confidence":0.9}]}`)

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts, convey.ShouldHaveLength, 1)
			convey.So(facts[0].Text, convey.ShouldEqual, "User has a dog")
		})

		convey.Convey("When the response is not JSON at all", func() {
			_, err := parseFacts("Sure! Here are the facts I found:")

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "malformed extraction response")
		})
	})
}
