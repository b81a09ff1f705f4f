package state

// Reduce returns the state that results from applying a to s. s is not
// modified; the Todos slice is shared, never mutated in place.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case DraftChanged:
		s.DraftTitle = a.Title

	case EditStarted:
		s.EditingID = a.Item.ID
		s.EditDraftTitle = a.Item.Title

	case EditDraftChanged:
		if s.EditingID != "" {
			s.EditDraftTitle = a.Title
		}

	case EditCancelled:
		s.EditingID = ""
		s.EditDraftTitle = ""

	case DeleteRequested:
		s.PendingDeleteID = a.ID

	case DeleteDismissed:
		s.PendingDeleteID = ""

	case RequestStarted:
		s.Busy = true

	case Synced:
		// A skipped operation never started a request
		if a.Skipped {
			break
		}
		s.Busy = false
		if a.Todos != nil {
			s.Todos = a.Todos
			if s.EditingID != "" {
				if _, ok := s.Find(s.EditingID); !ok {
					s.EditingID = ""
					s.EditDraftTitle = ""
				}
			}
		}
		if a.ClearDraft {
			s.DraftTitle = ""
		}
		if a.ExitEdit {
			s.EditingID = ""
			s.EditDraftTitle = ""
		}
		if a.Alert != nil {
			s = showAlert(s, *a.Alert)
		}

	case AlertShown:
		s = showAlert(s, a.Alert)

	case AlertExpired:
		if s.Alert != nil && s.Alert.Seq == a.Seq {
			s.Alert = nil
		}
	}
	return s
}

func showAlert(s State, alert Alert) State {
	s.alertSeq++
	alert.Seq = s.alertSeq
	s.Alert = &alert
	return s
}
