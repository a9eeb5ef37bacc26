// Package profile 持久化本地玩家资料（昵称、设备标识），
// 存放在用户主目录下，与日志同级。
package profile

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	profileDir  = ".click-arena"
	profileFile = "profile.yaml"
)

// Profile 本地玩家资料
type Profile struct {
	Name     string `yaml:"name"`
	DeviceID string `yaml:"device_id"`
}

// Load 读取本地资料。文件不存在时返回带新设备标识的空资料；
// 资料缺少设备标识时补齐并落盘。
func Load() (*Profile, error) {
	path, err := profilePath()
	if err != nil {
		return nil, err
	}

	p := &Profile{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// 首次运行
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, err
		}
	}

	if p.DeviceID == "" {
		p.DeviceID = uuid.NewString()
		if err := p.Save(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Save 写回本地资料
func (p *Profile) Save() error {
	path, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func profilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, profileDir, profileFile), nil
}
