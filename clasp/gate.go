package clasp

// callerRecord identifies who is executing: the method (or free function)
// on top of the caller stack and, for methods, the receiver instance. A nil
// record means top-level or unmanaged code, which is fully trusted.
type callerRecord struct {
	function string
	method   *Method
	instance *Instance
}

// accessAllowed is the access gate: a pure decision over the caller
// identity, the target instance, and the required level.
//
//   - no caller context: allowed (top-level code is trusted)
//   - public: always allowed
//   - protected: allowed when the caller's receiver is an instance of the
//     target's class or of a descendant of it
//   - private: allowed only when the caller's receiver is an instance of
//     exactly the target's class
func accessAllowed(caller *callerRecord, target *Instance, vis Visibility) bool {
	if caller == nil {
		return true
	}

	switch vis {
	case VisPublic:
		return true
	case VisProtected:
		return caller.instance != nil && caller.instance.class.descendsFrom(target.class)
	case VisPrivate:
		return caller.instance != nil && caller.instance.class == target.class
	default:
		return false
	}
}
