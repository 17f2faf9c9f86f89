package graph

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
)

func setupTestSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	resolver, _ := setupTestResolver(t)
	schema, err := NewSchema(resolver, Options{MaxDepth: 10})
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return schema
}

// execOK runs a query that must succeed and decodes its data into out.
func execOK(t *testing.T, schema *graphql.Schema, query string, vars map[string]interface{}, out interface{}) {
	t.Helper()
	resp := schema.Exec(context.Background(), query, "", vars)
	if len(resp.Errors) > 0 {
		t.Fatalf("Exec(%q) errors = %v", query, resp.Errors)
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		t.Fatalf("decoding data %s: %v", resp.Data, err)
	}
}

// execCode runs a query that must fail and returns the first error's code.
func execCode(t *testing.T, schema *graphql.Schema, query string, vars map[string]interface{}) string {
	t.Helper()
	resp := schema.Exec(context.Background(), query, "", vars)
	if len(resp.Errors) == 0 {
		t.Fatalf("Exec(%q) succeeded with %s, want an error", query, resp.Data)
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

type idResult struct {
	ID string `json:"id"`
}

func addAuthor(t *testing.T, schema *graphql.Schema, name string, age int) string {
	t.Helper()
	var data struct {
		AddAuthor idResult `json:"addAuthor"`
	}
	execOK(t, schema, `mutation($name: String!, $age: Int) { addAuthor(name: $name, age: $age) { id } }`,
		map[string]interface{}{"name": name, "age": int32(age)}, &data)
	return data.AddAuthor.ID
}

func addBook(t *testing.T, schema *graphql.Schema, name, genre, authorID string) string {
	t.Helper()
	var data struct {
		AddBook idResult `json:"addBook"`
	}
	execOK(t, schema, `mutation($name: String!, $genre: Genre!, $authorId: ID!) {
		addBook(name: $name, genre: $genre, authorId: $authorId) { id }
	}`, map[string]interface{}{"name": name, "genre": genre, "authorId": authorID}, &data)
	return data.AddBook.ID
}

func TestFormatSchema(t *testing.T) {
	sdl, err := FormatSchema()
	if err != nil {
		t.Fatalf("FormatSchema() error = %v", err)
	}
	for _, want := range []string{"type Book", "type Author", "enum Genre", "addBook", "authorsPage"} {
		if !strings.Contains(sdl, want) {
			t.Errorf("FormatSchema() missing %q", want)
		}
	}
}

func TestNewSchemaBindsResolver(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	if _, err := NewSchema(resolver, Options{}); err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
}

func TestSchemaOptionalListArguments(t *testing.T) {
	schema := setupTestSchema(t)
	addAuthor(t, schema, "Mg Ba", 50)

	tests := []struct {
		name  string
		query string
	}{
		{"no arguments", `{ books { id } authors { id } authorsPage { page } searchBooks(query: "river") { id } }`},
		{"explicit null", `{ books(page: null) { id } authorsPage(page: null) { page } searchBooks(query: "river", limit: null) { id } }`},
		{"negative values", `{ books(page: -1) { id } authors(page: -2) { id } searchBooks(query: "river", limit: -5) { id } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execOK(t, schema, tt.query, nil, nil)
		})
	}

	var data struct {
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
	}
	execOK(t, schema, `{ authors { name } }`, nil, &data)
	if len(data.Authors) != 1 || data.Authors[0].Name != "Mg Ba" {
		t.Errorf("authors() = %+v, want [Mg Ba]", data.Authors)
	}
}

func TestSchemaAuthorBookScenario(t *testing.T) {
	schema := setupTestSchema(t)

	authorID := addAuthor(t, schema, "Mg Mg", 26)
	bookID := addBook(t, schema, "The river", "ACTION", authorID)

	var author struct {
		Author struct {
			Name  string `json:"name"`
			Age   int    `json:"age"`
			Books []struct {
				Name string `json:"name"`
			} `json:"books"`
		} `json:"author"`
	}
	execOK(t, schema, `query($id: ID!) { author(id: $id) { name age books { name } } }`,
		map[string]interface{}{"id": authorID}, &author)
	if author.Author.Name != "Mg Mg" || author.Author.Age != 26 {
		t.Errorf("author = %q/%d, want Mg Mg/26", author.Author.Name, author.Author.Age)
	}
	if len(author.Author.Books) != 1 || author.Author.Books[0].Name != "The river" {
		t.Errorf("author.books = %+v, want [The river]", author.Author.Books)
	}

	var book struct {
		Book struct {
			Genre  string `json:"genre"`
			Author struct {
				Name string `json:"name"`
			} `json:"author"`
		} `json:"book"`
	}
	execOK(t, schema, `query($id: ID!) { book(id: $id) { genre author { name } } }`,
		map[string]interface{}{"id": bookID}, &book)
	if book.Book.Genre != "ACTION" || book.Book.Author.Name != "Mg Mg" {
		t.Errorf("book = %+v, want ACTION by Mg Mg", book.Book)
	}

	var deleted struct {
		DeleteBook struct {
			Name string `json:"name"`
		} `json:"deleteBook"`
	}
	execOK(t, schema, `mutation($id: ID!) { deleteBook(id: $id) { name } }`,
		map[string]interface{}{"id": bookID}, &deleted)
	if deleted.DeleteBook.Name != "The river" {
		t.Errorf("deleteBook.name = %q, want %q", deleted.DeleteBook.Name, "The river")
	}

	var books struct {
		Books []idResult `json:"books"`
	}
	execOK(t, schema, `{ books { id } }`, nil, &books)
	if len(books.Books) != 0 {
		t.Errorf("books() = %+v, want empty", books.Books)
	}
}

func TestSchemaErrorCodes(t *testing.T) {
	schema := setupTestSchema(t)

	authorID := addAuthor(t, schema, "Su Su", 27)
	addBook(t, schema, "Monkey", "COMEDY", authorID)

	tests := []struct {
		name  string
		query string
		vars  map[string]interface{}
		want  string
	}{
		{
			name:  "duplicate book name",
			query: `mutation($a: ID!) { addBook(name: "Monkey", genre: DRAMA, authorId: $a) { id } }`,
			vars:  map[string]interface{}{"a": authorID},
			want:  CodeDuplicateName,
		},
		{
			name:  "unknown author",
			query: `mutation { addBook(name: "Apple Inc", genre: HISTORY, authorId: "` + missingID + `") { id } }`,
			want:  CodeBadUserInput,
		},
		{
			name:  "blank name",
			query: `mutation($a: ID!) { addBook(name: " ", genre: HISTORY, authorId: $a) { id } }`,
			vars:  map[string]interface{}{"a": authorID},
			want:  CodeBadUserInput,
		},
		{
			name:  "delete missing book",
			query: `mutation { deleteBook(id: "` + missingID + `") { id } }`,
			want:  CodeNotFound,
		},
		{
			name:  "update missing author",
			query: `mutation { updateAuthor(id: "` + missingID + `", name: "X", age: 1) { id } }`,
			want:  CodeNotFound,
		},
		{
			name:  "remove missing author",
			query: `mutation { removeAuthor(id: "` + missingID + `") { id } }`,
			want:  CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execCode(t, schema, tt.query, tt.vars); got != tt.want {
				t.Errorf("error code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSchemaMalformedAuthorReference(t *testing.T) {
	resolver, s := setupTestResolver(t)
	schema, err := NewSchema(resolver, Options{})
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	b := createTestBook(t, s, "Legacy", "free text genre", "not-an-object-id")

	resp := schema.Exec(context.Background(), `query($id: ID!) { book(id: $id) { genre authorId author { id } } }`, "",
		map[string]interface{}{"id": b.ID})
	if len(resp.Errors) > 0 {
		t.Fatalf("Exec() errors = %v", resp.Errors)
	}

	var data struct {
		Book struct {
			Genre    string          `json:"genre"`
			AuthorID string          `json:"authorId"`
			Author   json.RawMessage `json:"author"`
		} `json:"book"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if data.Book.Genre != "free text genre" {
		t.Errorf("genre = %q, want %q", data.Book.Genre, "free text genre")
	}
	if data.Book.AuthorID != "not-an-object-id" {
		t.Errorf("authorId = %q, want %q", data.Book.AuthorID, "not-an-object-id")
	}
	if string(data.Book.Author) != "null" {
		t.Errorf("author = %s, want null", data.Book.Author)
	}
}

func TestSchemaAuthorsPage(t *testing.T) {
	schema := setupTestSchema(t)

	for _, name := range []string{"Mg Mg", "Su Su", "Hla Hla"} {
		addAuthor(t, schema, name, 30)
	}

	var data struct {
		AuthorsPage struct {
			Items    []struct{ Name string } `json:"items"`
			Page     int                     `json:"page"`
			PageSize int                     `json:"pageSize"`
			HasMore  bool                    `json:"hasMore"`
		} `json:"authorsPage"`
	}
	execOK(t, schema, `{ authorsPage { items { name } page pageSize hasMore } }`, nil, &data)

	if len(data.AuthorsPage.Items) != 3 {
		t.Errorf("items count = %d, want 3", len(data.AuthorsPage.Items))
	}
	if data.AuthorsPage.PageSize != 10 {
		t.Errorf("pageSize = %d, want 10", data.AuthorsPage.PageSize)
	}
	if data.AuthorsPage.HasMore {
		t.Error("hasMore = true, want false")
	}
}

func TestSchemaValidationExtensions(t *testing.T) {
	schema := setupTestSchema(t)

	resp := schema.Exec(context.Background(), `mutation { addAuthor(name: "", age: -4) { id } }`, "", nil)
	if len(resp.Errors) != 1 {
		t.Fatalf("Exec() errors = %v, want exactly one", resp.Errors)
	}

	ext := resp.Errors[0].Extensions
	if ext["code"] != CodeBadUserInput {
		t.Errorf("extensions.code = %v, want %q", ext["code"], CodeBadUserInput)
	}
	fields, ok := ext["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("extensions.fields = %T, want []map[string]interface{}", ext["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("extensions.fields count = %d, want 2", len(fields))
	}
}
