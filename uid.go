package idgen

import (
	"math/rand/v2"
	"net"
	"strconv"
	"strings"
	"time"
)

var ipNum = localIPNum()

func localIPNum() string {
	ip := net.ParseIP("127.0.0.1").To4()
	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
				ip = ipNet.IP.To4()
				break
			}
		}
	}
	return strconv.FormatInt(int64(uint(ip[0])<<24|uint(ip[1])<<16|uint(ip[2])<<8|uint(ip[3]))%46655, 36)
}

// GenId returns id[0] when it is set, otherwise a 16 character request id:
// 10 base36 digits of unix micros, 3 of the local IPv4, 3 random.
// Ten base36 digits of micros overflow in 2085.
func GenId(id ...string) string {
	if len(id) != 0 && id[0] != "" {
		return id[0]
	}
	v := [16]byte{'0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0'}
	copy(v[0:10], strconv.FormatInt(time.Now().UnixMicro(), 36))
	copy(v[10:13], ipNum)
	copy(v[13:16], strconv.FormatInt(rand.Int64N(46655), 36))
	return strings.ToUpper(string(v[:]))
}
