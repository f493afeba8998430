package testingh

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
)

var hostName = os.Getenv("OVERRIDE_HOSTNAME")

func init() {
	const defaultHostName = "localhost"

	if hostName == "" {
		hostName = defaultHostName
	}
}

// Spec describes a throwaway container. Cmd may use a %s verb for the
// advertised host and a %d verb for the host port.
type Spec struct {
	Repository string
	Tag        string
	Port       string
	Env        []string
	Cmd        func(host string, port int) []string
}

type Container struct {
	resource *dockertest.Resource
}

// Redpanda starts a single node broker. connectFn receives host:port.
func Redpanda(connectFn func(connURL string) error) (*Container, error) {
	return NewContainer(Spec{
		Repository: "redpandadata/redpanda",
		Tag:        "latest",
		Port:       "9092/tcp",
		Cmd: func(host string, port int) []string {
			return []string{
				"redpanda start",
				"--overprovisioned",
				"--smp 1",
				"--memory 1G",
				"--reserve-memory 0M",
				"--node-id 0",
				"--check=false",
				fmt.Sprintf("--advertise-kafka-addr %s:%v", host, port),
			}
		},
	}, connectFn)
}

// Clickhouse starts a server with database test_db and user su/su.
func Clickhouse(connectFn func(connURL string) error) (*Container, error) {
	return NewContainer(Spec{
		Repository: "clickhouse/clickhouse-server",
		Tag:        "latest-alpine",
		Port:       "9000/tcp",
		Env: []string{
			"CLICKHOUSE_DB=test_db",
			"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT=1",
			"CLICKHOUSE_USER=su",
			"CLICKHOUSE_PASSWORD=su",
		},
	}, connectFn)
}

func NewContainer(spec Spec, connectFn func(connURL string) error) (*Container, error) {
	hostPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free hostPort: %w", err)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	opts := &dockertest.RunOptions{
		Repository: spec.Repository,
		Tag:        spec.Tag,
		Env:        spec.Env,
		Auth: docker.AuthConfiguration{
			Username: os.Getenv("ARTIFACTORY_USER"),
			Password: os.Getenv("ARTIFACTORY_PWD"),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			docker.Port(spec.Port): {{
				HostIP:   hostName,
				HostPort: strconv.Itoa(hostPort),
			}},
		},
	}
	if spec.Cmd != nil {
		opts.Cmd = spec.Cmd(hostName, hostPort)
	}

	resource, err := pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a container: %w", err)
	}

	container := &Container{
		resource: resource,
	}
	addr := fmt.Sprintf("%s:%s", hostName, resource.GetPort(spec.Port))
	// the application in the container might not accept connections yet
	if err := pool.Retry(func() error {
		return connectFn(addr)
	}); err != nil {
		_ = resource.Close()
		return nil, fmt.Errorf("could not connect to container: %w", err)
	}

	return container, nil
}

func (c *Container) Purge() error {
	return c.resource.Close()
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
