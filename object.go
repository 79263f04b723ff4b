package nexus

import (
	"github.com/sirupsen/logrus"
)

// object is the state every NeXus object shares: an immutable absolute path,
// the shared file handle and the attributes read on open.
type object struct {
	file  *File
	path  string
	attrs *Attributes
	open  bool
}

func newObject(f *File, parentPath, name string) object {
	return object{
		file:  f,
		path:  joinPath(parentPath, name),
		attrs: newAttributes(nil),
	}
}

// Path returns the absolute path of the object.
func (o *object) Path() string { return o.path }

// Name returns the last path segment ("/" for the root).
func (o *object) Name() string {
	_, name := splitPath(o.path)
	if name == "" {
		return "/"
	}
	return name
}

// File returns the shared file handle.
func (o *object) File() *File { return o.file }

// Attributes returns the attributes read when the object was opened.
func (o *object) Attributes() *Attributes { return o.attrs }

// IsOpen reports whether the object has been opened and not closed since.
func (o *object) IsOpen() bool { return o.open }

// loadAttributes replaces the attribute set with the one stored in the file.
// An object without readable attributes simply has none.
func (o *object) loadAttributes() {
	list, err := o.file.attributes(o.path)
	if err != nil {
		o.file.log.WithFields(logrus.Fields{"path": o.path, "op": "attributes"}).
			WithError(err).Debug("no attributes")
		o.attrs = newAttributes(nil)
		return
	}
	o.attrs = newAttributes(list)
}
