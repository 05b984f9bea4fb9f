package net


import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode"
)


// ----------------------------------------------------------------------------


var ErrInvalidHost = errors.New("invalid host name")


// The `Host` could not be turned into any address to connect to.
//
type ResolutionError struct {
	Host string
	Err error
}


// ----------------------------------------------------------------------------


// Indicate if `host` is an IP literal or a syntactically valid host name.
//
func checkHost(host string) bool {
	var label string
	var r rune

	if net.ParseIP(host) != nil {
		return true
	}

	// https://en.wikipedia.org/wiki/Hostname

	host = strings.TrimSuffix(host, ".")

	if (len(host) < 1) || (len(host) > 253) {
		return false
	}

	for _, label = range strings.Split(host, ".") {
		if (len(label) < 1) || (len(label) > 63) {
			return false
		}

		if (label[0] == '-') || (label[len(label) - 1] == '-') {
			return false
		}

		for _, r = range label {
			if r > unicode.MaxASCII {
				return false
			}

			if unicode.IsLetter(r) {
				continue
			}

			if unicode.IsDigit(r) {
				continue
			}

			if (r == '-') || (r == '_') {
				continue
			}

			return false
		}
	}

	return true
}

// Return the addresses to try, in order, to reach `host` on `port`.
//
func resolve(ctx context.Context, host string, port uint16) ([]string, error) {
	var addrs []net.IPAddr
	var ret []string
	var strport string
	var err error
	var i int

	if !checkHost(host) {
		return nil, &ResolutionError{ host, ErrInvalidHost }
	}

	addrs, err = net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, &ResolutionError{ host, err }
	}

	if len(addrs) == 0 {
		return nil, &ResolutionError{ host, fmt.Errorf("no address") }
	}

	strport = strconv.FormatUint(uint64(port), 10)
	ret = make([]string, len(addrs))

	for i = range addrs {
		ret[i] = net.JoinHostPort(addrs[i].String(), strport)
	}

	return ret, nil
}


func (this *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve '%s': %v", this.Host, this.Err)
}

func (this *ResolutionError) Unwrap() error {
	return this.Err
}
