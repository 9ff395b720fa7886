package simplefiles

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StoredName builds the object name for an upload: the upload time in Unix
// milliseconds, a dash, then the original filename. Two uploads of the same
// filename within one millisecond produce the same name.
func StoredName(uploadedAt time.Time, originalFilename string) string {
	return strconv.FormatInt(uploadedAt.UnixMilli(), 10) + "-" + originalFilename
}

// ObjectKey joins a folder and a stored name into a store key.
func ObjectKey(folder, storedName string) string {
	return folder + "/" + storedName
}

// DisplayName strips the timestamp prefix from a stored name by taking
// everything after the last dash. Names without a dash are returned whole.
func DisplayName(storedName string) string {
	return storedName[strings.LastIndex(storedName, "-")+1:]
}

// EncodeFilename percent-encodes a filename for a Content-Disposition header
// using form encoding, so spaces become '+'.
func EncodeFilename(name string) string {
	return url.QueryEscape(name)
}
