package datatable

// PaginationAuthority is the single owner of page state. Exactly one variant
// is active per table; every navigation operation goes through dispatch.
type PaginationAuthority struct {
	mode Mode

	// client and grouped are the internal variants.
	client  PaginationState
	grouped PaginationState

	// server is the caller-owned variant.
	server *ServerSide
}

func newAuthority(mode Mode, initial PaginationState, server *ServerSide) *PaginationAuthority {
	a := &PaginationAuthority{mode: mode, server: server}
	switch mode {
	case ModeClient:
		a.client = initial
	case ModeGrouped:
		a.grouped = initial
	}
	return a
}

// Mode returns the active variant.
func (a *PaginationAuthority) Mode() Mode {
	return a.mode
}

// State returns the current page state as seen by the active variant.
func (a *PaginationAuthority) State() PaginationState {
	switch a.mode {
	case ModeServer:
		size := a.server.PageSize
		if size < 1 {
			size = DefaultPageSize
		}
		return PaginationState{PageIndex: a.server.CurrentPage, PageSize: size}
	case ModeGrouped:
		return a.grouped
	default:
		return a.client
	}
}

// dispatch routes next to the active variant. Internal variants are updated in
// place; the server variant is left untouched and the returned function raises
// OnPaginationChange. The returned function is nil when nothing must be called.
func (a *PaginationAuthority) dispatch(next PaginationState) func() {
	switch a.mode {
	case ModeServer:
		cb := a.server.OnPaginationChange
		if cb == nil {
			return nil
		}
		return func() { cb(next) }
	case ModeGrouped:
		a.grouped = next
	default:
		a.client = next
	}
	return nil
}

// clampIndex keeps the internal page index inside [0, pageCount-1]. The
// server variant is not corrected; the caller owns it.
func (a *PaginationAuthority) clampIndex(pageCount int) {
	switch a.mode {
	case ModeGrouped:
		a.grouped.PageIndex = clamp(a.grouped.PageIndex, 0, pageCount-1)
	case ModeClient:
		a.client.PageIndex = clamp(a.client.PageIndex, 0, pageCount-1)
	}
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// pageCountFor returns ceil(n/size) floored at 1.
func pageCountFor(n, size int) int {
	if size < 1 {
		size = 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}
