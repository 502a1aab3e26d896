package prompt

import (
	"strings"

	"github.com/bitrise-io/testmycode/input"
)

// CodeBlock fences text as a C# code block
func CodeBlock(text string) string {
	return CodeFence + FenceLanguage + "\n" + text + "\n" + CodeFence + "\n"
}

// Build assembles the prompt document: the source under test, the
// requirements with the example stub, then each context file in order.
func Build(source string, context []input.Entry) string {
	var b strings.Builder

	b.WriteString(Header)
	b.WriteString(CodeBlock(source))
	b.WriteString("\n\n")
	b.WriteString(Requirements)
	b.WriteString("\n")
	b.WriteString(ExampleIntro)
	b.WriteString(CodeBlock(ExampleStub))
	b.WriteString("\n")

	if len(context) == 0 {
		return b.String()
	}

	b.WriteString(ContextHeader)
	for _, entry := range context {
		b.WriteString(entry.Path + ":\n")
		b.WriteString(CodeBlock(entry.Text))
		b.WriteString("\n")
	}

	return b.String()
}
