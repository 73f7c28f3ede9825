package notebook

import (
	"fmt"
	"strings"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/tool"
)

const (
	// MaxNoteLength bounds the characters of one note.
	MaxNoteLength = 500
	// SearchLimit bounds the notes returned by one search.
	SearchLimit = 10
)

// Result is the uniform tool reply.
type Result struct {
	Result  string `json:"result"`
	Content string `json:"content,omitempty"`
}

func success(content string) Result { return Result{Result: "success", Content: content} }
func fail(content string) Result    { return Result{Result: "fail", Content: content} }

// Notebook exposes a Store as agent tools.
type Notebook struct {
	store *Store
	tools []tool.Tool
}

var _ tool.Toolset = (*Notebook)(nil)

// New creates a Notebook over store. A nil store gets a fresh one.
func New(store *Store) *Notebook {
	if store == nil {
		store = NewStore()
	}

	nb := &Notebook{store: store}
	nb.tools = []tool.Tool{
		tool.MustFunc("record_info", recordDoc, nb.recordInfo),
		tool.MustFunc("search_info", searchDoc, nb.searchInfo),
		tool.MustFunc("list_keywords", "List all keywords in the notebook.", nb.listKeywords),
		tool.MustFunc("judge_and_save", judgeDoc, nb.judgeAndSave),
	}

	return nb
}

// Store returns the underlying store.
func (nb *Notebook) Store() *Store { return nb.store }

// Tools implements tool.Toolset.
func (nb *Notebook) Tools() []tool.Tool { return nb.tools }

var recordDoc = fmt.Sprintf(`Record an important information into the notebook.

Args:
    info: The information to be recorded. No more than %d characters.
    keywords: The keywords for the information, separated by commas.
    importance: An integer between 0 and 10.`, MaxNoteLength)

type recordArgs struct {
	Info       string `json:"info"`
	Keywords   string `json:"keywords"`
	Importance int    `json:"importance" default:"0"`
	Caller     string `tool:"agent_name"`
}

func (nb *Notebook) recordInfo(_ *core.ToolContext, in recordArgs) (any, error) {
	return nb.record(in.Caller, in.Info, in.Keywords, in.Importance), nil
}

func (nb *Notebook) record(owner, info, keywords string, importance int) Result {
	if len([]rune(info)) > MaxNoteLength {
		return fail(fmt.Sprintf("The information should be no more than %d characters.", MaxNoteLength))
	}
	if importance < 0 || importance > 10 {
		return fail("The importance should be an integer between 0 and 10.")
	}
	if _, err := nb.store.Record(owner, info, ParseKeywords(keywords), importance); err != nil {
		return fail(err.Error())
	}
	return success("")
}

const searchDoc = `Search information from the notebook using keywords.

Args:
    keywords: The keywords to look up, separated by commas.`

type searchArgs struct {
	Keywords string `json:"keywords"`
	Caller   string `tool:"agent_name"`
}

func (nb *Notebook) searchInfo(_ *core.ToolContext, in searchArgs) (any, error) {
	hits := nb.store.Search(in.Caller, ParseKeywords(in.Keywords), SearchLimit)
	if len(hits) == 0 {
		return fail("No information found."), nil
	}

	items := make([]string, len(hits))
	for i, n := range hits {
		items[i] = n.Content
	}
	return success(toMarkdown(items)), nil
}

type listArgs struct {
	Caller string `tool:"agent_name"`
}

func (nb *Notebook) listKeywords(_ *core.ToolContext, in listArgs) (any, error) {
	return success(toMarkdown(nb.store.Keywords(in.Caller))), nil
}

const judgeDoc = `Ask yourself privately whether an information is worth keeping and record it only if so.

Args:
    info: The candidate information.
    keywords: The keywords for the information, separated by commas.`

type judgeArgs struct {
	Info     string     `json:"info"`
	Keywords string     `json:"keywords"`
	Agent    core.Agent `tool:"agent"`
}

// JudgeQuestion is the message the private avatar answers.
const JudgeQuestion = "Is this information worth recording for later? Answer yes or no.\n\n"

func (nb *Notebook) judgeAndSave(tc *core.ToolContext, in judgeArgs) (any, error) {
	avatar, err := in.Agent.NewAvatar()
	if err != nil {
		return nil, err
	}

	verdict, err := avatar.Respond(tc.Context(), core.NewUserMessage(JudgeQuestion+in.Info))
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(verdict.Content)), "y") {
		tc.LogDebug("notebook.judge.rejected", "caller", in.Agent.Name())
		return Result{Result: "skipped", Content: "Judged not worth recording."}, nil
	}

	return nb.record(in.Agent.Name(), in.Info, in.Keywords, 5), nil
}

func toMarkdown(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}
