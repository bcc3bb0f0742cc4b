package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/recall/pkg/memory"
)

func TestOpenAIEmbedder(t *testing.T) {
	convey.Convey("Given an OpenAI embedder", t, func() {
		var gotReq map[string]any

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/embeddings" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			gotReq = map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&gotReq)

			inputs, _ := gotReq["input"].([]any)
			data := make([]map[string]any, len(inputs))
			for i := range inputs {
				data[i] = map[string]any{
					"object":    "embedding",
					"index":     i,
					"embedding": []float64{float64(i), 0.5},
				}
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"data":   data,
				"model":  "text-embedding-3-small",
				"usage":  map[string]any{"prompt_tokens": 1, "total_tokens": 1},
			})
		}))
		defer ts.Close()

		client := openai.NewClient(
			option.WithBaseURL(ts.URL),
			option.WithAPIKey("test-key"),
		)

		embedder := NewOpenAIEmbedder(WithOpenAIEmbedderClient(&client))

		convey.Convey("When embedding a single text", func() {
			vector, err := embedder.Embed(context.Background(), "User lives in Berlin")

			convey.So(err, convey.ShouldBeNil)
			convey.So(vector, convey.ShouldResemble, []float32{0, 0.5})
			convey.So(gotReq["model"], convey.ShouldEqual, "text-embedding-3-small")
			convey.So(gotReq["input"], convey.ShouldResemble, []any{"User lives in Berlin"})
		})

		convey.Convey("When embedding a batch", func() {
			vectors, err := embedder.EmbedBatch(context.Background(), []string{"first", "second"})

			convey.So(err, convey.ShouldBeNil)
			convey.So(vectors, convey.ShouldHaveLength, 2)
			convey.So(vectors[0], convey.ShouldResemble, []float32{0, 0.5})
			convey.So(vectors[1], convey.ShouldResemble, []float32{1, 0.5})
		})

		convey.Convey("When embedding an empty batch", func() {
			vectors, err := embedder.EmbedBatch(context.Background(), []string{})

			convey.So(err, convey.ShouldBeNil)
			convey.So(vectors, convey.ShouldBeEmpty)
			convey.So(gotReq, convey.ShouldBeNil) // no request went out
		})

		convey.Convey("When overriding the model", func() {
			custom := NewOpenAIEmbedder(
				WithOpenAIEmbedderClient(&client),
				WithOpenAIEmbedderModel("text-embedding-3-large"),
			)

			_, err := custom.Embed(context.Background(), "text")

			convey.So(err, convey.ShouldBeNil)
			convey.So(gotReq["model"], convey.ShouldEqual, "text-embedding-3-large")
		})
	})
}

func TestOpenAIExtractor(t *testing.T) {
	convey.Convey("Given an OpenAI extractor", t, func() {
		var gotReq map[string]any

		content := "```json\n" +
			`{"facts":[` +
			`{"text":"User's name is Nikhil","category":"profile","slot":"name","confidence":0.98},` +
			`{"text":"User enjoys going on hikes","category":"hobby_interest","slot":null,"confidence":1.4}` +
			`]}` +
			"\n```"

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			gotReq = map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&gotReq)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "chatcmpl-test",
				"object":  "chat.completion",
				"created": 1700000000,
				"model":   "gpt-4o-mini",
				"choices": []map[string]any{
					{
						"index":         0,
						"finish_reason": "stop",
						"message":       map[string]any{"role": "assistant", "content": content},
					},
				},
			})
		}))
		defer ts.Close()

		client := openai.NewClient(
			option.WithBaseURL(ts.URL),
			option.WithAPIKey("test-key"),
		)

		extractor := NewOpenAIExtractor(WithOpenAIExtractorClient(&client))

		convey.Convey("When extracting facts from a message", func() {
			facts, err := extractor.Extract(context.Background(), "I'm Nikhil and I love hiking.")

			convey.So(err, convey.ShouldBeNil)
			convey.So(facts, convey.ShouldHaveLength, 2)
			convey.So(facts[0].Text, convey.ShouldEqual, "User's name is Nikhil")
			convey.So(facts[0].Slot, convey.ShouldEqual, "name")
			convey.So(facts[1].Category, convey.ShouldEqual, memory.CategoryOther) // degraded
			convey.So(facts[1].Slot, convey.ShouldBeEmpty)
			convey.So(facts[1].Confidence, convey.ShouldEqual, 1.0) // clamped

			messages, ok := gotReq["messages"].([]any)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(messages, convey.ShouldHaveLength, 2)

			system := messages[0].(map[string]any)
			convey.So(system["role"], convey.ShouldEqual, "system")
			convey.So(system["content"], convey.ShouldContainSubstring, "fact extraction assistant")

			user := messages[1].(map[string]any)
			convey.So(user["role"], convey.ShouldEqual, "user")
			convey.So(user["content"], convey.ShouldEqual, "I'm Nikhil and I love hiking.")

			format, ok := gotReq["response_format"].(map[string]any)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(format["type"], convey.ShouldEqual, "json_object")

			convey.So(gotReq["model"], convey.ShouldEqual, "gpt-4o-mini")
			convey.So(gotReq["temperature"], convey.ShouldEqual, float64(0))
		})

		convey.Convey("When the completion has no choices", func() {
			empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":      "chatcmpl-empty",
					"object":  "chat.completion",
					"created": 1700000000,
					"model":   "gpt-4o-mini",
					"choices": []map[string]any{},
				})
			}))
			defer empty.Close()

			emptyClient := openai.NewClient(
				option.WithBaseURL(empty.URL),
				option.WithAPIKey("test-key"),
			)

			broken := NewOpenAIExtractor(WithOpenAIExtractorClient(&emptyClient))

			_, err := broken.Extract(context.Background(), "anything")

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "no choices")
		})
	})
}
