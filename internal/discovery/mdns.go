// ABOUTME: mDNS advertisement and browsing for xlaudio boards
// ABOUTME: Publishes the telemetry endpoint and finds other boards on the local network
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service type every board advertises
const ServiceType = "_xlaudio._tcp"

// BrowseTimeout bounds one mDNS query round
const BrowseTimeout = 3 * time.Second

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	TXT         map[string]string
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
	boards chan *BoardInfo
}

// BoardInfo describes a discovered board
type BoardInfo struct {
	Name string
	Host string
	Port int
	TXT  map[string]string
}

// Addr returns host:port for dialing the board's telemetry server
func (b *BoardInfo) Addr() string {
	return net.JoinHostPort(b.Host, fmt.Sprintf("%d", b.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
		boards: make(chan *BoardInfo, 10),
	}
}

// Advertise publishes this board until Stop is called
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		encodeTXT(m.config.TXT),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse searches for boards in the background. Results arrive on Boards.
func (m *Manager) Browse() {
	go m.browseLoop()
}

func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for entry := range entries {
				board := boardFromEntry(entry)
				if board == nil {
					continue
				}

				log.Printf("Discovered board: %s at %s", board.Name, board.Addr())

				select {
				case m.boards <- board:
				case <-m.ctx.Done():
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: ServiceType,
			Domain:  "local",
			Timeout: BrowseTimeout,
			Entries: entries,
		}

		if err := mdns.Query(params); err != nil {
			log.Printf("Warning: mDNS query failed: %v", err)
		}
		close(entries)
		<-done
	}
}

// Boards returns the channel of discovered boards
func (m *Manager) Boards() <-chan *BoardInfo {
	return m.boards
}

// Stop stops advertising and browsing
func (m *Manager) Stop() {
	m.cancel()
}

func boardFromEntry(entry *mdns.ServiceEntry) *BoardInfo {
	var host string
	switch {
	case entry.AddrV4 != nil:
		host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		host = entry.AddrV6.String()
	default:
		return nil
	}
	return &BoardInfo{
		Name: strings.TrimSuffix(entry.Name, "."+ServiceType+".local."),
		Host: host,
		Port: entry.Port,
		TXT:  decodeTXT(entry.InfoFields),
	}
}

// encodeTXT renders key=value records in key order
func encodeTXT(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	txt := make([]string, 0, len(keys))
	for _, k := range keys {
		txt = append(txt, k+"="+fields[k])
	}
	return txt
}

func decodeTXT(records []string) map[string]string {
	fields := make(map[string]string, len(records))
	for _, r := range records {
		k, v, _ := strings.Cut(r, "=")
		if k != "" {
			fields[k] = v
		}
	}
	return fields
}

// getLocalIPs returns local IPv4 addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
