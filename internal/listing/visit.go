package listing

// dirID identifies a directory across paths.
type dirID struct {
	dev uint64
	ino uint64
}

// visitStack holds the directories currently being listed, outermost
// first. A directory is never pushed twice.
type visitStack []dirID

// push adds id and reports whether it was absent.
func (s *visitStack) push(id dirID) bool {
	if s.contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

func (s *visitStack) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s visitStack) contains(id dirID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
