package prompts

// NoInformationResponse is returned verbatim when retrieval finds nothing
// relevant; no model call is made in that case.
const NoInformationResponse = "I'm sorry, I don't have that information in my knowledge base. " +
	"Please contact the front desk and we'll be happy to help."

// Question-answer templates. Each instructs the model to stay inside the
// provided context rather than drawing on outside knowledge.
const (
	textQATmpl = `Context information from the knowledge base is below.
---------------------
{context_str}
---------------------
Using only the context information and not prior knowledge, answer the question.
If the context does not contain the answer, say that the information is not available.
Question: {query_str}
Answer: `

	refineTmpl = `The original question is as follows: {query_str}
We have provided an existing answer: {existing_answer}
We have the opportunity to refine the existing answer (only if needed) with some more context below.
------------
{context_msg}
------------
Given the new context, refine the original answer to better answer the question. If the context isn't useful, return the original answer unchanged.
Refined Answer: `

	combineTmpl = `Two partial answers to the same question are given below.
Question: {query_str}
---------------------
Answer 1: {answer_one}
---------------------
Answer 2: {answer_two}
---------------------
Synthesize the two partial answers into a single coherent answer to the question. Use only the information in the partial answers; do not add outside knowledge.
Combined Answer: `

	condenseTmpl = `Given the following conversation between a guest and an assistant, and a follow up question from the guest, rephrase the follow up question to be a standalone question that contains all needed references.

Chat History:
{chat_history}

Follow Up Question: {question}
Standalone Question: `
)

// Default templates used by the synthesizer and chat engine. Callers that
// need custom wording pass their own Template instead.
var (
	TextQA   = New(textQATmpl)
	Refine   = New(refineTmpl)
	Combine  = New(combineTmpl)
	Condense = New(condenseTmpl)
)
