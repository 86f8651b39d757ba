// hashpass 生成管理员密码的 bcrypt 哈希，输出用于 SHORTLINK_ADMIN_PASSWORD_HASH
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"shortlink-service/internal/model"
)

func main() {
	password, err := readPassword(os.Args[1:], os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var admin model.Admin
	if err := admin.SetPassword(password); err != nil {
		fmt.Fprintln(os.Stderr, "生成哈希失败:", err)
		os.Exit(1)
	}
	fmt.Println(admin.PasswordHash)
}

// readPassword 优先取第一个参数，否则从标准输入读一行
func readPassword(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("用法: hashpass <password> 或 echo <password> | hashpass")
	}
	return password, nil
}
