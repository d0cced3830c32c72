package workspace

// Hooks defines optional observability callbacks fired by the model as it
// mutates. All fields may be nil. Hooks run synchronously on the mutating
// goroutine and must not call back into the workspace.
type Hooks struct {
	OnBlockCreate    func(b *Block)
	OnBlockDispose   func(b *Block)
	OnBlockRender    func(b *Block)
	OnBumpNeighbours func(b *Block)

	// OnConnect fires after a link is established; superior is the parent-side
	// endpoint (input value or next statement).
	OnConnect func(superior, inferior *Connection)

	// OnDisconnect fires after a link is severed, with the same orientation.
	OnDisconnect func(superior, inferior *Connection)

	OnFieldAdded   func(b *Block, input, field string)
	OnFieldRemoved func(b *Block, input, field string)
}

// MergeHooks combines hook sets; for each event every non-nil callback runs,
// in argument order. Used to stack observability layers (logging, metrics)
// without them knowing about each other.
func MergeHooks(sets ...Hooks) Hooks {
	var out Hooks
	for _, h := range sets {
		out = Hooks{
			OnBlockCreate:    chainBlock(out.OnBlockCreate, h.OnBlockCreate),
			OnBlockDispose:   chainBlock(out.OnBlockDispose, h.OnBlockDispose),
			OnBlockRender:    chainBlock(out.OnBlockRender, h.OnBlockRender),
			OnBumpNeighbours: chainBlock(out.OnBumpNeighbours, h.OnBumpNeighbours),
			OnConnect:        chainConn(out.OnConnect, h.OnConnect),
			OnDisconnect:     chainConn(out.OnDisconnect, h.OnDisconnect),
			OnFieldAdded:     chainField(out.OnFieldAdded, h.OnFieldAdded),
			OnFieldRemoved:   chainField(out.OnFieldRemoved, h.OnFieldRemoved),
		}
	}
	return out
}

func chainBlock(a, b func(*Block)) func(*Block) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(blk *Block) { a(blk); b(blk) }
}

func chainConn(a, b func(*Connection, *Connection)) func(*Connection, *Connection) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(sup, inf *Connection) { a(sup, inf); b(sup, inf) }
}

func chainField(a, b func(*Block, string, string)) func(*Block, string, string) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(blk *Block, input, field string) { a(blk, input, field); b(blk, input, field) }
}
