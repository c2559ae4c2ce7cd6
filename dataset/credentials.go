package dataset

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/kbukum/asreval/errors"
)

// Credentials is an AWS access key pair.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// ReadCredentials reads the access key CSV offered for download by the AWS
// console: a header row followed by the key id and the secret in the first
// two columns.
func ReadCredentials(path string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return Credentials{}, errors.NotFound("credentials file", path).WithCause(err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return Credentials{}, errors.InvalidFormat("credentials file", "CSV").WithCause(err)
	}
	if len(rows) < 2 || len(rows[1]) < 2 {
		return Credentials{}, errors.InvalidFormat("credentials file", "header row and a key row")
	}
	c := Credentials{
		AccessKey: strings.TrimSpace(rows[1][0]),
		SecretKey: strings.TrimSpace(rows[1][1]),
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return Credentials{}, errors.InvalidFormat("credentials file", "non-empty key id and secret")
	}
	return c, nil
}
