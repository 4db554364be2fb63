package protocol

import (
	"fmt"
	"strings"
)

// redis cache key generator
const (
	RedisCacheKeyNamespaceSep string = ":"
)

type RedisCacheKeyDomainPrefix string

const (
	RedisCacheKeyPrefixLoginToken   RedisCacheKeyDomainPrefix = "login_tokens"
	RedisCacheKeyPrefixCaptcha      RedisCacheKeyDomainPrefix = "captcha_codes"
	RedisCacheKeyPrefixSysConfig    RedisCacheKeyDomainPrefix = "sys_config"
	RedisCacheKeyPrefixSysDict      RedisCacheKeyDomainPrefix = "sys_dict"
	RedisCacheKeyPrefixPwdErrCnt    RedisCacheKeyDomainPrefix = "pwd_err_cnt"
	RedisCacheKeyPrefixRepeatSubmit RedisCacheKeyDomainPrefix = "repeat_submit"
	RedisCacheKeyPrefixRateLimit    RedisCacheKeyDomainPrefix = "rate_limit"
	RedisCacheKeyPrefixWxNonce      RedisCacheKeyDomainPrefix = "wx_nonce"
	RedisCacheKeyPrefixLock         RedisCacheKeyDomainPrefix = "lock"
	RedisCacheKeyPrefixSemaphore    RedisCacheKeyDomainPrefix = "semaphore"
)

// CacheNames 缓存监控中展示的缓存分组
var CacheNames = []struct {
	CacheName string `json:"cacheName"`
	Remark    string `json:"remark"`
}{
	{CacheName: string(RedisCacheKeyPrefixLoginToken) + RedisCacheKeyNamespaceSep, Remark: "用户信息"},
	{CacheName: string(RedisCacheKeyPrefixSysConfig) + RedisCacheKeyNamespaceSep, Remark: "配置信息"},
	{CacheName: string(RedisCacheKeyPrefixSysDict) + RedisCacheKeyNamespaceSep, Remark: "数据字典"},
	{CacheName: string(RedisCacheKeyPrefixCaptcha) + RedisCacheKeyNamespaceSep, Remark: "验证码"},
	{CacheName: string(RedisCacheKeyPrefixRepeatSubmit) + RedisCacheKeyNamespaceSep, Remark: "防重提交"},
	{CacheName: string(RedisCacheKeyPrefixRateLimit) + RedisCacheKeyNamespaceSep, Remark: "限流处理"},
	{CacheName: string(RedisCacheKeyPrefixPwdErrCnt) + RedisCacheKeyNamespaceSep, Remark: "密码错误次数"},
}

func GenRedisCacheKey(d RedisCacheKeyDomainPrefix, fields ...string) string {
	return strings.Join(append([]string{string(d)}, fields...), RedisCacheKeyNamespaceSep)
}

// GenLoginTokenKey login_tokens:{uuid}
func GenLoginTokenKey(uuid string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixLoginToken, uuid)
}

// GenCaptchaKey captcha_codes:{uuid}
func GenCaptchaKey(uuid string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixCaptcha, uuid)
}

// GenSysConfigKey sys_config:{config_key}
func GenSysConfigKey(configKey string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixSysConfig, configKey)
}

// GenSysDictKey sys_dict:{dict_type}
func GenSysDictKey(dictType string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixSysDict, dictType)
}

// GenPwdErrCntKey pwd_err_cnt:{user_name}
func GenPwdErrCntKey(userName string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixPwdErrCnt, userName)
}

// GenWxNonceKey wx_nonce:{openid}:{nonce}
func GenWxNonceKey(openID, nonce string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixWxNonce, openID, nonce)
}

func GenLockKey(fields ...string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixLock, fields...)
}

func GenActivityReserveLockKey(activityID int64) string {
	return GenLockKey("activity_reserve", fmt.Sprintf("%d", activityID))
}

func GenJobLockKey(jobID int64) string {
	return GenLockKey("job", fmt.Sprintf("%d", jobID))
}

// GenJobTickLockKey lock:job_tick:{job_id}:{unix_second}, 同一次触发只执行一次
func GenJobTickLockKey(jobID, tick int64) string {
	return GenLockKey("job_tick", fmt.Sprintf("%d", jobID), fmt.Sprintf("%d", tick))
}

// JOB_CHANGED_CHANNEL 定时任务变更后广播任务 id
const JOB_CHANGED_CHANNEL = "sys_job:changed"

// GenSemaphoreKey semaphore:{name}
func GenSemaphoreKey(name string) string {
	return GenRedisCacheKey(RedisCacheKeyPrefixSemaphore, name)
}
