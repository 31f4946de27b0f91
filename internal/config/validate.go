package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags and the rules that span several fields.
// Load calls it automatically.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describe(err)
	}

	if c.SFTP.InsecureIgnoreHostKey && c.SFTP.KnownHostsPath != "" {
		return fmt.Errorf("sftp: known_hosts_path and insecure_ignore_host_key are mutually exclusive")
	}

	return nil
}

// RequireSFTP checks the SFTP settings a command is about to use.
func (c SFTPConfig) RequireSFTP() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SFTP_HOST")
	}
	if c.User == "" {
		missing = append(missing, "SFTP_USER")
	}
	if c.Pass == "" {
		missing = append(missing, "SFTP_PASS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("sftp: missing %s", strings.Join(missing, " / "))
	}
	if c.KnownHostsPath == "" && !c.InsecureIgnoreHostKey {
		return fmt.Errorf("sftp: set SFTP_KNOWN_HOSTS or SFTP_INSECURE_IGNORE_HOSTKEY=true")
	}
	return nil
}

// describe turns validator output into one readable error.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q (got %v)", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(parts, "; "))
}
