package address

import (
	"errors"
	"net"
	"strconv"
	"strings"
)

const DefaultHost = "0.0.0.0"

// Address is a host and a port, kept separately so the same host may be bound on
// different ports.
type Address struct {
	Host string
	Port uint16
}

// Parse parses "host:port". A missing host means listening on every interface.
func Parse(addr string) (Address, error) {
	colon := strings.LastIndexByte(addr, ':')
	if colon == -1 {
		return Address{}, errors.New("no port given")
	}

	host, rawPort := addr[:colon], addr[colon+1:]
	port, err := strconv.ParseUint(rawPort, 10, 16)
	if err != nil {
		return Address{}, errors.New("invalid port: " + rawPort)
	}

	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if len(host) == 0 {
		host = DefaultHost
	}

	return Address{Host: host, Port: uint16(port)}, nil
}

// SetPort returns a copy of the address with another port.
func (a Address) SetPort(port uint16) Address {
	a.Port = port
	return a
}

func (a Address) IsLocalhost() bool {
	return strings.EqualFold(a.Host, "localhost") || a.Host == "127.0.0.1" || a.Host == "::1"
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}
