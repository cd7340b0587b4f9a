package markup

import (
	"github.com/jacoelho/markup/pkg/htmlstream"
	"github.com/jacoelho/markup/pkg/htmltext"
)

// Loop runs tasks on the consumer goroutine. *eventloop.Loop implements it.
type Loop interface {
	Post(task func()) bool
}

// TreeBuilder receives every token, in order, on the loop goroutine. It may
// call Stop or Detach on the parser from inside ConstructTree. The token is
// only valid for the duration of the call.
type TreeBuilder interface {
	ConstructTree(tok *htmlstream.Token)
}

// TreeFinisher is implemented by tree builders that want to know when the
// EndOfFile token has been processed.
type TreeFinisher interface {
	FinishTree()
}

// ScriptHandle identifies a script owned by the ScriptHost.
type ScriptHandle any

// ScriptHost executes parser-blocking scripts. After an end tag has been
// processed, HasParserBlockingScript is consulted; when it reports true the
// parser suspends, takes the script and asks the host to run it. The host
// calls DocumentParser.ScriptExecutionCompleted when done.
type ScriptHost interface {
	HasParserBlockingScript() bool
	TakeScriptToProcess() (ScriptHandle, htmltext.Position)
	RunScript(script ScriptHandle, pos htmltext.Position)
}

// ResourceGate holds chunk processing until early resources are loaded. The
// host calls DocumentParser.EarlyResourcesLoaded when the gate opens.
type ResourceGate interface {
	HaveEarlyResourcesLoaded() bool
}
